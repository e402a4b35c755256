package graph

import (
	"fmt"
	"path"

	"github.com/agentic-research/packtree/internal/tree"
)

// Flatten turns a normalized tree into addressable nodes, parents before
// children. The root gets ID prefix (its own type when prefix is empty); each child
// is addressed as parent/type, with repeated sibling types numbered
// type[1], type[2], ... in document order.
func Flatten(root tree.Node, prefix, source string) []*Node {
	id := path.Clean("/" + prefix)[1:]
	if id == "" {
		id = root.Type()
	}
	var out []*Node
	flatten(root, id, source, 0, true, &out)
	return out
}

func flatten(n tree.Node, id, source string, ordinal int, isRoot bool, out *[]*Node) {
	gn := &Node{
		ID:             id,
		Type:           n.Type(),
		Kind:           kindOf(n, isRoot),
		PackType:       n.PackType(),
		Description:    n.Description(),
		HasDescription: n.HasDescription(),
		Source:         source,
		Ordinal:        ordinal,
	}
	for _, p := range n.Properties().Pairs() {
		gn.Properties = append(gn.Properties, Property{Key: p.Key, Value: p.Value})
	}
	*out = append(*out, gn)

	b, ok := n.(*tree.Branch)
	if !ok {
		return
	}
	seen := make(map[string]int)
	for i, c := range b.Children() {
		childID := id + "/" + c.Type()
		if k := seen[c.Type()]; k > 0 {
			childID = fmt.Sprintf("%s[%d]", childID, k)
		}
		seen[c.Type()]++
		gn.Children = append(gn.Children, childID)
		flatten(c, childID, source, i, false, out)
	}
}

func kindOf(n tree.Node, isRoot bool) Kind {
	if isRoot {
		return KindRoot
	}
	if _, ok := n.(*tree.Leaf); ok {
		return KindLeaf
	}
	return KindBranch
}
