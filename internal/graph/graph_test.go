package graph

import (
	"testing"

	"github.com/agentic-research/packtree/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *tree.Branch {
	root := tree.NewBranch(tree.TypeRoot)
	pkg := tree.NewBranch("package")
	pkg.SetDescription("pack")
	pkg.PutProperty("vendor", "ARM")
	pkg.PutProperty("name", "CMSIS")

	devices := tree.NewBranch("devices")
	for _, name := range []string{"M0", "M3", "M4"} {
		l := tree.NewLeaf("device")
		l.PutProperty("Dname", name)
		devices.AppendChild(l)
	}
	pkg.AppendChild(devices)

	file := tree.NewLeaf("file")
	file.PutNonEmptyProperty(tree.PropertyXMLContent, "startup")
	pkg.AppendChild(file)

	root.AppendChild(pkg)
	return root
}

func TestFlatten(t *testing.T) {
	nodes := Flatten(sampleTree(), "packs/arm.pdsc", "packs/arm.pdsc")

	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{
		"packs/arm.pdsc",
		"packs/arm.pdsc/package",
		"packs/arm.pdsc/package/devices",
		"packs/arm.pdsc/package/devices/device",
		"packs/arm.pdsc/package/devices/device[1]",
		"packs/arm.pdsc/package/devices/device[2]",
		"packs/arm.pdsc/package/file",
	}, ids)

	root := nodes[0]
	assert.Equal(t, KindRoot, root.Kind)
	assert.Equal(t, tree.TypeRoot, root.Type)
	assert.Equal(t, []string{"packs/arm.pdsc/package"}, root.Children)

	pkg := nodes[1]
	assert.Equal(t, KindBranch, pkg.Kind)
	assert.Equal(t, "pack", pkg.Description)
	assert.True(t, pkg.HasDescription)
	assert.False(t, root.HasDescription)
	assert.Equal(t, []Property{{"vendor", "ARM"}, {"name", "CMSIS"}}, pkg.Properties)
	assert.Equal(t, "packs/arm.pdsc", pkg.ParentID())
	assert.Equal(t, "packs/arm.pdsc", pkg.Source)

	m3 := nodes[4]
	assert.Equal(t, KindLeaf, m3.Kind)
	assert.Equal(t, 1, m3.Ordinal)
	v, ok := m3.Property("Dname")
	assert.True(t, ok)
	assert.Equal(t, "M3", v)

	assert.Equal(t, 1, nodes[6].Ordinal, "file is the second child of package")
}

func TestFlatten_EmptyPrefix(t *testing.T) {
	nodes := Flatten(sampleTree(), "", "")
	assert.Equal(t, tree.TypeRoot, nodes[0].ID)
	assert.Equal(t, "ROOT/package", nodes[1].ID)
	assert.Equal(t, "", nodes[0].ParentID())
}

func loadSample(t *testing.T, store *MemoryStore, prefix string) {
	t.Helper()
	nodes := Flatten(sampleTree(), prefix, prefix)
	store.AddRoot(nodes[0])
	for _, n := range nodes[1:] {
		store.AddNode(n)
	}
}

func TestMemoryStore_GetNodeAndChildren(t *testing.T) {
	store := NewMemoryStore()
	loadSample(t, store, "arm.pdsc")

	node, err := store.GetNode("/arm.pdsc/package")
	require.NoError(t, err, "leading slash is normalized")
	assert.Equal(t, "package", node.Type)

	roots, err := store.ListChildren("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"arm.pdsc"}, roots)

	children, err := store.ListChildren("arm.pdsc/package")
	require.NoError(t, err)
	assert.Equal(t, []string{"arm.pdsc/package/devices", "arm.pdsc/package/file"}, children)

	_, err = store.GetNode("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.ListChildren("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 7, store.Len())
}

func TestMemoryStore_AddRootIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.AddRoot(&Node{ID: "a", Type: tree.TypeRoot})
	store.AddRoot(&Node{ID: "a", Type: tree.TypeRoot})

	roots, err := store.ListChildren("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, roots)

	found, err := store.FindByType(tree.TypeRoot)
	require.NoError(t, err)
	assert.Len(t, found, 1, "replacing a node does not duplicate index entries")
}

func TestMemoryStore_FindByType(t *testing.T) {
	store := NewMemoryStore()
	loadSample(t, store, "a.pdsc")
	loadSample(t, store, "b.pdsc")

	devices, err := store.FindByType("device")
	require.NoError(t, err)
	require.Len(t, devices, 6)
	assert.Equal(t, "a.pdsc/package/devices/device", devices[0].ID)
	assert.Equal(t, "b.pdsc/package/devices/device[2]", devices[5].ID)

	none, err := store.FindByType("board")
	require.NoError(t, err)
	assert.Empty(t, none)

	types := store.Types()
	assert.Equal(t, uint64(6), types["device"])
	assert.Equal(t, uint64(2), types["package"])
}

func TestMemoryStore_ReplaceNodeReindexes(t *testing.T) {
	store := NewMemoryStore()
	store.AddNode(&Node{ID: "x", Type: "old"})
	store.AddNode(&Node{ID: "x", Type: "new"})

	old, _ := store.FindByType("old")
	assert.Empty(t, old)
	fresh, _ := store.FindByType("new")
	require.Len(t, fresh, 1)
	assert.Equal(t, "x", fresh[0].ID)
}

func TestMemoryStore_DeleteSource(t *testing.T) {
	store := NewMemoryStore()
	loadSample(t, store, "a.pdsc")
	loadSample(t, store, "b.pdsc")
	store.AddNode(&Node{ID: "index", Type: "index", Children: []string{"a.pdsc", "b.pdsc"}})

	rootsBefore, _ := store.ListChildren("/")
	indexBefore, _ := store.ListChildren("index")

	removed := store.DeleteSource("a.pdsc")
	assert.Equal(t, 7, removed)
	assert.Equal(t, 8, store.Len())

	_, err := store.GetNode("a.pdsc/package")
	assert.ErrorIs(t, err, ErrNotFound)

	roots, _ := store.ListChildren("/")
	assert.Equal(t, []string{"b.pdsc"}, roots)

	index, err := store.GetNode("index")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdsc"}, index.Children)

	assert.Equal(t, []string{"a.pdsc", "b.pdsc"}, rootsBefore, "earlier results are not rewritten")
	assert.Equal(t, []string{"a.pdsc", "b.pdsc"}, indexBefore)

	devices, _ := store.FindByType("device")
	assert.Len(t, devices, 3)

	assert.Equal(t, 0, store.DeleteSource("a.pdsc"), "second delete is a no-op")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "root", KindRoot.String())
	assert.Equal(t, "branch", KindBranch.String())
	assert.Equal(t, "leaf", KindLeaf.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
