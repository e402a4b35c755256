package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentic-research/packtree/internal/graph"
	"github.com/agentic-research/packtree/internal/ingest"
)

var statsType string

var statsCmd = &cobra.Command{
	Use:   "stats [nodes.db]",
	Short: "Summarize a database written by build",
	Long: `Loads a database written by "packtree build" and prints the number of
nodes per type. With --type, prints the IDs of every node of that type.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := graph.NewMemoryStore()
		n, err := ingest.LoadSQLite(args[0], store)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if statsType != "" {
			nodes, err := store.FindByType(statsType)
			if err != nil {
				return err
			}
			for _, node := range nodes {
				fmt.Fprintln(out, node.ID)
			}
			return nil
		}

		counts := store.Types()
		types := make([]string, 0, len(counts))
		for typ := range counts {
			types = append(types, typ)
		}
		slices.Sort(types)
		for _, typ := range types {
			fmt.Fprintf(out, "%-24s %d\n", typ, counts[typ])
		}
		fmt.Fprintf(out, "%d nodes\n", n)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsType, "type", "t", "", "List the IDs of nodes with this type")
	rootCmd.AddCommand(statsCmd)
}
