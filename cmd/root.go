package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agentic-research/packtree/api"
	"github.com/agentic-research/packtree/internal/graph"
	"github.com/agentic-research/packtree/internal/ingest"
	"github.com/agentic-research/packtree/internal/tree"
)

var (
	profilePath string
	noColor     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", "", "Path to normalization profile (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

var rootCmd = &cobra.Command{
	Use:   "packtree",
	Short: "packtree: normalize XML pack descriptions into uniform node trees",
	Long: `packtree turns irregular XML documents (CMSIS .pdsc pack descriptions and
the like) into a tree of typed nodes with flat properties, then prints,
queries, compares or stores it.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadProfile() (*api.Profile, error) {
	if profilePath == "" {
		return api.DefaultProfile(), nil
	}
	p, err := api.LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// openSource roots an OS filesystem at the parent of path and returns the
// path relative to it, so node IDs start with the source's own name.
func openSource(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}

// parseFile normalizes a single file with the active profile.
func parseFile(path string) (*tree.Branch, error) {
	profile, err := loadProfile()
	if err != nil {
		return nil, err
	}
	fs, rel, err := openSource(path)
	if err != nil {
		return nil, err
	}
	return ingest.NewEngine(profile, graph.NewMemoryStore(), fs).ParseFile(rel)
}

func colorEnabled(cmd *cobra.Command) bool {
	if noColor {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
