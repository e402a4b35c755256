package xmldom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// ErrMalformed is returned for input that is not a single well-formed element tree.
var ErrMalformed = errors.New("malformed xml")

// ParseBytes parses an XML document held in memory.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads an XML document from r. Comments, processing instructions and
// directives are dropped.
func Parse(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	p := &parser{decoder: d, doc: &Document{}}
	return p.parse()
}

type parser struct {
	decoder *xml.Decoder
	doc     *Document
	current *Element
}

func (p *parser) parse() (*Document, error) {
	for {
		// RawToken keeps prefixes as written; end tags are matched below.
		tok, err := p.decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := p.handle(tok); err != nil {
			return nil, err
		}
	}

	if p.current != nil {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformed, p.current.Name)
	}
	if p.doc.Root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return p.doc, nil
}

func (p *parser) handle(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		el := &Element{Name: qualified(t.Name)}
		if len(t.Attr) > 0 {
			el.Attrs = make([]Attr, len(t.Attr))
			for i, a := range t.Attr {
				el.Attrs[i] = Attr{Name: qualified(a.Name), Value: a.Value}
			}
		}
		if p.current == nil {
			if p.doc.Root != nil {
				return fmt.Errorf("%w: second root element <%s>", ErrMalformed, el.Name)
			}
			p.doc.Root = el
		} else {
			p.current.AppendChild(el)
		}
		p.current = el

	case xml.EndElement:
		name := qualified(t.Name)
		if p.current == nil || p.current.Name != name {
			return fmt.Errorf("%w: unexpected end element </%s>", ErrMalformed, name)
		}
		p.current = p.current.Parent

	case xml.CharData:
		if p.current == nil {
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: text outside root element", ErrMalformed)
			}
			return nil
		}
		p.current.AppendText(string(t))
	}
	return nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
