package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/packtree/internal/tree"
)

func sample(vendor string) *tree.Branch {
	root := tree.NewBranch(tree.TypeRoot)
	pkg := tree.NewBranch("package")
	pkg.SetDescription("CMSIS pack")
	pkg.PutProperty("vendor", vendor)
	dev := tree.NewLeaf("device")
	dev.PutProperty("Dname", "ARMCM4")
	pkg.AppendChild(dev)
	root.AppendChild(pkg)
	return root
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sample("ARM"), TextOptions{}))

	assert.Equal(t, `ROOT
  package
    desc: "CMSIS pack"
    vendor = "ARM"
    device*
      Dname = "ARMCM4"
`, buf.String())
}

func TestText_Options(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sample("ARM"), TextOptions{Indent: "\t"}))
	assert.Contains(t, buf.String(), "\n\t\tdevice*\n")

	buf.Reset()
	require.NoError(t, Text(&buf, sample("ARM"), TextOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[", "colors forced on")
	assert.NotContains(t, TextString(sample("ARM")), "\x1b[")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample("ARM")))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, tree.TypeRoot, got["type"])
	pkg := got["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "CMSIS pack", pkg["description"])
	assert.Equal(t, map[string]any{"vendor": "ARM"}, pkg["properties"])
}

func TestJSON_PropertyOrder(t *testing.T) {
	root := tree.NewBranch(tree.TypeRoot)
	dev := tree.NewLeaf("device")
	dev.PutProperty("Dname", "ARMCM4")
	dev.PutProperty("Dvendor", "ARM:82")
	dev.PutProperty("Dclock", "10000000")
	root.AppendChild(dev)
	root.AppendChild(tree.NewBranch("empty"))

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, root))
	out := buf.String()

	var positions []int
	for _, key := range dev.Properties().Keys() {
		i := strings.Index(out, `"`+key+`"`)
		require.GreaterOrEqual(t, i, 0, key)
		positions = append(positions, i)
	}
	assert.IsIncreasing(t, positions, "keys appear in insertion order")

	var got struct {
		Children []struct {
			Type       string            `json:"type"`
			Properties map[string]string `json:"properties"`
			Children   []any             `json:"children"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Children, 2)
	assert.Equal(t, "ARMCM4", got.Children[0].Properties["Dname"])
	assert.Nil(t, got.Children[0].Children, "leaves have no children key")
	assert.NotNil(t, got.Children[1].Children, "branches always carry children")
	assert.Empty(t, got.Children[1].Children)
}

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff(sample("ARM"), sample("ARM")))

	d := Diff(sample("ARM"), sample("Keil"))
	lines := strings.Split(strings.TrimSuffix(d, "\n"), "\n")
	assert.Contains(t, lines, `-     vendor = "ARM"`)
	assert.Contains(t, lines, `+     vendor = "Keil"`)
	assert.Contains(t, lines, "  ROOT")
}
