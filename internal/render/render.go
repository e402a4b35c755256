// Package render writes normalized trees for people and tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agentic-research/packtree/internal/tree"
)

// TextOptions controls Text output.
type TextOptions struct {
	// Color enables ANSI colors regardless of the terminal.
	Color bool
	// Indent is the per-level indentation. Defaults to two spaces.
	Indent string
}

type palette struct {
	typ, leaf, key, desc *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		typ:  color.New(color.FgCyan, color.Bold),
		leaf: color.New(color.FgGreen),
		key:  color.New(color.FgYellow),
		desc: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.typ, p.leaf, p.key, p.desc} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Text writes an indented outline of n: one line per node, followed by its
// description and properties one level deeper.
//
//	ROOT
//	  package
//	    desc: "CMSIS pack"
//	    vendor = "ARM"
//	    devices
//	      device*
//	        Dname = "ARMCM4"
//
// Leaves are marked with a trailing '*'.
func Text(w io.Writer, n tree.Node, opts TextOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	p := newPalette(opts.Color)

	return tree.Walk(n, func(node tree.Node, depth int) error {
		pad := strings.Repeat(indent, depth)
		inner := pad + indent

		name := p.typ.Sprint(node.Type())
		if _, ok := node.(*tree.Leaf); ok {
			name = p.leaf.Sprint(node.Type() + "*")
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", pad, name); err != nil {
			return err
		}
		if node.HasDescription() {
			if _, err := fmt.Fprintf(w, "%s%s\n", inner, p.desc.Sprintf("desc: %q", node.Description())); err != nil {
				return err
			}
		}
		for _, prop := range node.Properties().Pairs() {
			if _, err := fmt.Fprintf(w, "%s%s = %q\n", inner, p.key.Sprint(prop.Key), prop.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// TextString is Text into a string, without colors.
func TextString(n tree.Node) string {
	var sb strings.Builder
	_ = Text(&sb, n, TextOptions{})
	return sb.String()
}

// JSON writes n as indented JSON, properties in insertion order.
func JSON(w io.Writer, n tree.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return nil
}

// Diff returns a line diff between the text renderings of a and b, with
// "-" and "+" prefixes for removed and added lines and "  " for context.
// The result is empty when both trees render identically.
func Diff(a, b tree.Node) string {
	ta, tb := TextString(a), TextString(b)
	if ta == tb {
		return ""
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(ta, tb)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
	}
	return sb.String()
}
