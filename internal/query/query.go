// Package query evaluates JSONPath selectors against normalized trees.
//
// A tree is queried in its generic form (see tree.ToGeneric): every node is an
// object with "type", "properties", optional "description" and "packType",
// and, for branches, an ordered "children" array. For example
//
//	$..children[?(@.type == 'device')].properties.Dname
//
// selects the Dname property of every device node.
package query

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/agentic-research/packtree/internal/tree"
)

// Match is a single result from a query.
type Match struct {
	value any
}

// Values returns the matched object's fields. A scalar match is returned
// under the "value" key.
func (m Match) Values() map[string]any {
	switch v := m.value.(type) {
	case map[string]any:
		return v // preserve nesting
	default:
		return map[string]any{"value": v}
	}
}

// Context returns the raw matched value.
func (m Match) Context() any {
	return m.value
}

// String returns the match if it is a string.
func (m Match) String() (string, bool) {
	s, ok := m.value.(string)
	return s, ok
}

// Walker runs selectors against generic data (maps, slices and scalars).
type Walker struct{}

func NewWalker() *Walker {
	return &Walker{}
}

// Query executes a JSONPath selector against root.
func (w *Walker) Query(root any, selector string) ([]Match, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	results := x.Get(root)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{value: r}
	}
	return matches, nil
}

// Query executes a JSONPath selector against a normalized tree.
func Query(n tree.Node, selector string) ([]Match, error) {
	return NewWalker().Query(tree.ToGeneric(n), selector)
}

// Strings returns the string matches, in order, skipping everything else.
func Strings(matches []Match) []string {
	var out []string
	for _, m := range matches {
		if s, ok := m.String(); ok {
			out = append(out, s)
		}
	}
	return out
}
