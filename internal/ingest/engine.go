package ingest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/packtree/api"
	"github.com/agentic-research/packtree/internal/graph"
	"github.com/agentic-research/packtree/internal/tree"
	"github.com/agentic-research/packtree/internal/xmldom"
)

// Stats summarizes one Ingest call.
type Stats struct {
	Files   int // Files normalized
	Skipped int // Files ignored because of their extension
	Nodes   int // Nodes written to the store
}

// Engine drives the ingestion process: read, parse, normalize, flatten, store.
type Engine struct {
	Profile    *api.Profile
	Store      IngestionTarget
	FS         billy.Filesystem
	Normalizer *Normalizer
}

// NewEngine returns an engine reading from fs. A nil profile means
// api.DefaultProfile().
func NewEngine(profile *api.Profile, store IngestionTarget, fs billy.Filesystem) *Engine {
	if profile == nil {
		profile = api.DefaultProfile()
	}
	return &Engine{
		Profile:    profile,
		Store:      store,
		FS:         fs,
		Normalizer: NewNormalizerFromProfile(profile),
	}
}

// Ingest processes a file or directory. Files in directories are picked by
// the profile's extensions; a file named explicitly is always ingested.
// The first failing file aborts the run.
func (e *Engine) Ingest(path string) (*Stats, error) {
	info, err := e.FS.Stat(path)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	if !info.IsDir() {
		return stats, e.ingestFile(path, stats)
	}

	err = util.Walk(e.FS, path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if !e.Profile.Ingests(p) {
			stats.Skipped++
			return nil
		}
		return e.ingestFile(p, stats)
	})
	if err != nil {
		return stats, err
	}
	if stats.Skipped > 0 {
		log.Printf("ingest: %d files in %s skipped (extensions %v)", stats.Skipped, path, e.Profile.Extensions)
	}
	return stats, nil
}

// ParseFile reads and normalizes a single file.
func (e *Engine) ParseFile(path string) (*tree.Branch, error) {
	f, err := e.FS.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() // safe to ignore

	doc, err := xmldom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	root, err := e.Normalizer.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", path, err)
	}
	return root, nil
}

func (e *Engine) ingestFile(path string, stats *Stats) error {
	root, err := e.ParseFile(path)
	if err != nil {
		return err
	}

	id := filepath.ToSlash(path)
	nodes := graph.Flatten(root, id, id)
	e.Store.AddRoot(nodes[0])
	for _, n := range nodes[1:] {
		e.Store.AddNode(n)
	}

	stats.Files++
	stats.Nodes += len(nodes)
	return nil
}
