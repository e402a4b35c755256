package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/packtree/internal/ingest"
)

var buildCmd = &cobra.Command{
	Use:   "build [source] [output.db]",
	Short: "Build a SQLite database of normalized nodes from a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		output := args[1]

		profile, err := loadProfile()
		if err != nil {
			return err
		}
		fs, rel, err := openSource(source)
		if err != nil {
			return err
		}

		_ = os.Remove(output) // Overwrite
		writer, err := ingest.NewSQLiteWriter(output)
		if err != nil {
			return err
		}

		engine := ingest.NewEngine(profile, writer, fs)

		start := time.Now()
		fmt.Fprintf(cmd.OutOrStdout(), "Building %s from %s...\n", output, source)
		stats, err := engine.Ingest(rel)
		if err != nil {
			_ = writer.Close()
			return err
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("close %s: %w", output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Done in %v: %d files, %d nodes.\n",
			time.Since(start).Round(time.Millisecond), stats.Files, stats.Nodes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
