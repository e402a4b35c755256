package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/packtree/internal/render"
)

var outputFormat string

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Print the normalized tree of an XML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := parseFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "text":
			return render.Text(out, root, render.TextOptions{Color: colorEnabled(cmd)})
		case "json":
			return render.JSON(out, root)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", outputFormat)
		}
	},
}

func init() {
	normalizeCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	rootCmd.AddCommand(normalizeCmd)
}
