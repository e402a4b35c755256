package tree

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the children of the
// current branch.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk. depth is 0 for the
// node Walk was called with.
type WalkFunc func(n Node, depth int) error

// Walk visits n and its descendants depth-first, parents before children.
func Walk(n Node, fn WalkFunc) error {
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	b, ok := n.(*Branch)
	if !ok {
		return nil
	}
	for _, c := range b.children {
		if err := walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of branches and leaves under n, n included.
func Count(n Node) (branches, leaves int) {
	_ = Walk(n, func(n Node, _ int) error {
		switch n.(type) {
		case *Branch:
			branches++
		case *Leaf:
			leaves++
		}
		return nil
	})
	return branches, leaves
}

// ToGeneric converts n into plain maps and slices, the shape JSONPath
// evaluators work on. Properties become a map, so their order is lost;
// children keep their order. Encode the node itself for ordered JSON.
func ToGeneric(n Node) map[string]any {
	out := map[string]any{
		"type": n.Type(),
	}
	props := make(map[string]any, n.Properties().Len())
	for _, p := range n.Properties().Pairs() {
		props[p.Key] = p.Value
	}
	out["properties"] = props
	if n.HasDescription() {
		out["description"] = n.Description()
	}
	if n.PackType() != "" {
		out["packType"] = n.PackType()
	}
	if b, ok := n.(*Branch); ok {
		children := make([]any, 0, len(b.children))
		for _, c := range b.children {
			children = append(children, ToGeneric(c))
		}
		out["children"] = children
	}
	return out
}
