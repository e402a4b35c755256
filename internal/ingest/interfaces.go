package ingest

import (
	"github.com/agentic-research/packtree/internal/graph"
	"github.com/agentic-research/packtree/internal/tree"
)

// Classifier decides, for each direct child element of a branch being built,
// whether the child is flattened into a property instead of becoming a node.
type Classifier interface {
	// IsProperty reports whether the child element named tag becomes a
	// property of node. Property children are opaque: only their text is kept.
	IsProperty(tag string, node *tree.Branch) bool
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(tag string, node *tree.Branch) bool

// IsProperty implements Classifier.
func (f ClassifierFunc) IsProperty(tag string, node *tree.Branch) bool {
	return f(tag, node)
}

// IngestionTarget combines Graph reading with writing capabilities.
type IngestionTarget interface {
	graph.Graph
	AddNode(n *graph.Node)
	AddRoot(n *graph.Node)
}
