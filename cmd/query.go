package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/packtree/internal/query"
)

var queryCmd = &cobra.Command{
	Use:     "query [file] [jsonpath]",
	Short:   "Run a JSONPath selector against the normalized tree of a file",
	Example: `  packtree query ARM.CMSIS.pdsc "$..children[?(@.type == 'device')].properties.Dname"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := parseFile(args[0])
		if err != nil {
			return err
		}
		matches, err := query.Query(root, args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range matches {
			if s, ok := m.String(); ok {
				fmt.Fprintln(out, s)
				continue
			}
			b, err := json.Marshal(m.Context())
			if err != nil {
				return fmt.Errorf("encode match: %w", err)
			}
			fmt.Fprintln(out, string(b))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
