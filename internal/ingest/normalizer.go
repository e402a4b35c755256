package ingest

import (
	"errors"
	"fmt"

	"github.com/agentic-research/packtree/api"
	"github.com/agentic-research/packtree/internal/tree"
	"github.com/agentic-research/packtree/internal/xmldom"
)

// DefaultMaxDepth bounds element nesting when Normalizer.MaxDepth is zero.
const DefaultMaxDepth = 512

var (
	ErrNilElement = errors.New("nil element")
	ErrEmptyTag   = errors.New("element has empty tag name")
	// ErrTooDeep is returned when branches nest deeper than MaxDepth.
	// Subtrees folded into a property are only read for their text and do
	// not count towards the limit.
	ErrTooDeep = errors.New("element nesting exceeds max depth")
)

// Normalizer converts an element tree into a regular tree of nodes.
//
// Attributes become properties with their original names. Childless elements
// without attributes become properties of their parent (or its description,
// for <description>). Childless elements with attributes become leaves, their
// text stored under tree.PropertyXMLContent. Everything else becomes a branch,
// recursively. Text written through PutNonEmptyProperty is already trimmed.
//
// A Normalizer holds only configuration; Parse may be called concurrently if
// the classifier is stateless.
type Normalizer struct {
	Classifier Classifier
	MaxDepth   int
	PackType   string
}

// NewNormalizer returns a normalizer using c, or DefaultClassifier if c is nil.
func NewNormalizer(c Classifier) *Normalizer {
	if c == nil {
		c = DefaultClassifier
	}
	return &Normalizer{
		Classifier: c,
		MaxDepth:   DefaultMaxDepth,
		PackType:   tree.PackTypeCMSIS,
	}
}

// NewNormalizerFromProfile configures a normalizer from a profile.
func NewNormalizerFromProfile(p *api.Profile) *Normalizer {
	if p == nil {
		return NewNormalizer(nil)
	}
	var c Classifier
	if len(p.Properties) > 0 {
		c = NewRuleClassifier(p.Properties)
	}
	n := NewNormalizer(c)
	if p.MaxDepth > 0 {
		n.MaxDepth = p.MaxDepth
	}
	if p.PackType != "" {
		n.PackType = p.PackType
	}
	return n
}

// Parse normalizes a parsed document into a tree rooted at a ROOT branch.
func (n *Normalizer) Parse(doc *xmldom.Document) (*tree.Branch, error) {
	return n.ParseElement(doc.DocumentElement())
}

// ParseElement normalizes the tree under root. The result is always a
// branch of type tree.TypeRoot, even when root itself would collapse into a
// property. On error no tree is returned.
func (n *Normalizer) ParseElement(root *xmldom.Element) (*tree.Branch, error) {
	if root == nil {
		return nil, ErrNilElement
	}
	out := tree.NewBranch(tree.TypeRoot)
	out.SetPackType(n.packType())
	if err := n.normalize(root, out, 1); err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Normalizer) normalize(el *xmldom.Element, parent *tree.Branch, depth int) error {
	if depth > n.maxDepth() {
		return fmt.Errorf("%w (%d) at <%s>", ErrTooDeep, n.maxDepth(), el.TagName())
	}
	typ := el.TagName()
	if typ == "" {
		return ErrEmptyTag
	}

	var node tree.Node
	children := el.ChildElements()
	if len(children) > 0 {
		branch := tree.NewBranch(typ)
		branch.SetPackType(n.packType())
		node = branch

		for _, child := range children {
			if child == nil {
				return ErrNilElement
			}
			name := child.TagName()
			if name == "" {
				return ErrEmptyTag
			}
			if n.classifier().IsProperty(name, branch) {
				branch.PutNonEmptyProperty(name, child.TextContent())
				continue
			}
			if err := n.normalize(child, branch, depth+1); err != nil {
				return err
			}
		}
	} else {
		content := el.TextContent()
		if !el.HasAttributes() {
			if typ == tree.DescriptionTag {
				parent.SetDescription(content)
			} else {
				parent.PutNonEmptyProperty(typ, content)
			}
			return nil
		}
		leaf := tree.NewLeaf(typ)
		leaf.SetPackType(n.packType())
		leaf.PutNonEmptyProperty(tree.PropertyXMLContent, content)
		node = leaf
	}

	// Attributes last, so they win over same-named text properties.
	for _, a := range el.Attributes() {
		node.PutProperty(a.Name, a.Value)
	}
	parent.AppendChild(node)
	return nil
}

func (n *Normalizer) classifier() Classifier {
	if n.Classifier == nil {
		return DefaultClassifier
	}
	return n.Classifier
}

func (n *Normalizer) maxDepth() int {
	if n.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return n.MaxDepth
}

func (n *Normalizer) packType() string {
	if n.PackType == "" {
		return tree.PackTypeCMSIS
	}
	return n.PackType
}
