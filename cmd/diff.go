package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/packtree/internal/render"
)

var diffCmd = &cobra.Command{
	Use:   "diff [a] [b]",
	Short: "Compare the normalized trees of two XML files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := parseFile(args[0])
		if err != nil {
			return err
		}
		b, err := parseFile(args[1])
		if err != nil {
			return err
		}

		d := render.Diff(a, b)
		if d == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No differences.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
