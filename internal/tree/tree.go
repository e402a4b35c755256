// Package tree is the normalized output model: a closed set of node variants
// (Branch, Leaf), each carrying a type tag, ordered properties and an optional
// description. Branches additionally own an ordered list of children.
package tree

const (
	// TypeRoot is the type of the synthetic node at the top of every tree.
	TypeRoot = "ROOT"

	// PropertyXMLContent holds the text content of a Leaf.
	PropertyXMLContent = "XML_CONTENT"

	// DescriptionTag is the element name routed into a node's description.
	DescriptionTag = "description"

	// PackTypeCMSIS is the default pack type stamped on normalized nodes.
	PackTypeCMSIS = "cmsis"
)

// Node is implemented by *Branch and *Leaf only.
type Node interface {
	Type() string
	Properties() *Properties
	PutProperty(key, value string)
	PutNonEmptyProperty(key, value string)
	Description() string
	HasDescription() bool
	SetDescription(text string)
	PackType() string
	SetPackType(packType string)

	sealed()
}

type base struct {
	typ         string
	props       *Properties
	description *string
	packType    string
}

func newBase(typ string) base {
	if typ == "" {
		panic("tree: empty node type")
	}
	return base{typ: typ, props: newProperties()}
}

func (b *base) Type() string            { return b.typ }
func (b *base) Properties() *Properties { return b.props }
func (b *base) PackType() string        { return b.packType }
func (b *base) SetPackType(p string)    { b.packType = p }
func (b *base) sealed()                 {}

// PutProperty stores key -> value verbatim, with no trimming and no
// emptiness check. Used for attributes, where an empty value is meaningful.
func (b *base) PutProperty(key, value string) {
	b.props.Put(key, value)
}

// PutNonEmptyProperty trims value and stores it unless the result is empty.
// This is the write path for element text, so consumers never re-trim.
func (b *base) PutNonEmptyProperty(key, value string) {
	b.props.PutNonEmpty(key, value)
}

func (b *base) Description() string {
	if b.description == nil {
		return ""
	}
	return *b.description
}

func (b *base) HasDescription() bool {
	return b.description != nil
}

// SetDescription stores text verbatim, replacing any previous description.
func (b *base) SetDescription(text string) {
	b.description = &text
}

// Branch is a node with children.
type Branch struct {
	base
	children []Node
}

// NewBranch returns an empty branch of the given type.
func NewBranch(typ string) *Branch {
	return &Branch{base: newBase(typ)}
}

// Children returns the child nodes in insertion order.
func (b *Branch) Children() []Node {
	return b.children
}

// AppendChild transfers child into b. A child must be attached to one parent only.
func (b *Branch) AppendChild(child Node) {
	if child == nil {
		panic("tree: nil child")
	}
	b.children = append(b.children, child)
}

// Leaf is a childless node. Its text, if any, lives under PropertyXMLContent.
type Leaf struct {
	base
}

// NewLeaf returns an empty leaf of the given type.
func NewLeaf(typ string) *Leaf {
	return &Leaf{base: newBase(typ)}
}

// Content returns the leaf's text content.
func (l *Leaf) Content() string {
	v, _ := l.props.Get(PropertyXMLContent)
	return v
}

var (
	_ Node = (*Branch)(nil)
	_ Node = (*Leaf)(nil)
)
