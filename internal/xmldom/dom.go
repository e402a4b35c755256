// Package xmldom builds a small read-only element tree from XML text.
//
// It provides only the primitives the normalizer needs: tag name, child
// elements, text content and attributes. Names are kept as written
// (prefix:local); no namespace resolution is done.
package xmldom

import "strings"

// Attr is a single attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Document is a parsed XML document with exactly one root element.
type Document struct {
	Root *Element
}

// DocumentElement returns the root element, or nil for an empty document.
func (d *Document) DocumentElement() *Element {
	if d == nil {
		return nil
	}
	return d.Root
}

// Element is a tagged node of the source document.
type Element struct {
	Name     string
	Attrs    []Attr
	Parent   *Element
	children []*Element
	content  []item
}

// item is either a child element or a run of character data, in document order.
type item struct {
	elem *Element
	text string
}

// NewElement returns a detached element. Used by parsers and tests.
func NewElement(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// AppendChild adds child as the last child of e and returns child.
func (e *Element) AppendChild(child *Element) *Element {
	child.Parent = e
	e.children = append(e.children, child)
	e.content = append(e.content, item{elem: child})
	return child
}

// AppendText adds a run of character data after the current last child.
func (e *Element) AppendText(text string) *Element {
	if text == "" {
		return e
	}
	if n := len(e.content); n > 0 && e.content[n-1].elem == nil {
		e.content[n-1].text += text
		return e
	}
	e.content = append(e.content, item{text: text})
	return e
}

// TagName returns the element's qualified name.
func (e *Element) TagName() string {
	return e.Name
}

// ChildElements returns the direct element children in document order.
func (e *Element) ChildElements() []*Element {
	return e.children
}

// HasAttributes reports whether the element carries any attribute.
func (e *Element) HasAttributes() bool {
	return len(e.Attrs) > 0
}

// Attributes returns the attributes in document order.
func (e *Element) Attributes() []Attr {
	return e.Attrs
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// TextContent returns all character data below e, concatenated in document
// order. Whitespace is kept; trimming is up to the caller. The walk uses an
// explicit stack, so nesting depth is limited only by memory.
func (e *Element) TextContent() string {
	type frame struct {
		el   *Element
		next int
	}
	var sb strings.Builder
	stack := []frame{{el: e}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.el.content) {
			stack = stack[:len(stack)-1]
			continue
		}
		it := top.el.content[top.next]
		top.next++
		if it.elem != nil {
			stack = append(stack, frame{el: it.elem})
			continue
		}
		sb.WriteString(it.text)
	}
	return sb.String()
}
