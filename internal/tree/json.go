package tree

import "encoding/json"

// MarshalJSON encodes the properties as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	return p.m.MarshalJSON()
}

type jsonNode struct {
	Type        string      `json:"type"`
	Properties  *Properties `json:"properties"`
	Description *string     `json:"description,omitempty"`
	PackType    string      `json:"packType,omitempty"`
}

func (b *base) jsonNode() jsonNode {
	return jsonNode{
		Type:        b.typ,
		Properties:  b.props,
		Description: b.description,
		PackType:    b.packType,
	}
}

// MarshalJSON encodes the branch and its subtree with the same keys as
// ToGeneric, keeping property order. A branch always carries a children array.
func (b *Branch) MarshalJSON() ([]byte, error) {
	out := struct {
		jsonNode
		Children []Node `json:"children"`
	}{jsonNode: b.jsonNode(), Children: b.children}
	if out.Children == nil {
		out.Children = []Node{}
	}
	return json.Marshal(out)
}

// MarshalJSON encodes the leaf with the same keys as ToGeneric, keeping
// property order.
func (l *Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.jsonNode())
}
