package graph

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

var ErrNotFound = errors.New("node not found")

// Kind tells which tree variant a stored node came from.
type Kind int

const (
	KindRoot Kind = iota
	KindBranch
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindBranch:
		return "branch"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Property is one ordered key/value pair of a stored node.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node is the flat, addressable form of a tree node.
// IDs are slash-separated paths; Children holds child IDs in document order.
type Node struct {
	ID             string
	Type           string
	Kind           Kind
	PackType       string
	Description    string
	HasDescription bool // Set even when Description is empty
	Properties     []Property
	Children       []string
	Source         string // File the tree was read from
	Ordinal        int    // Position among the parent's children
}

// Property returns the value stored under key.
func (n *Node) Property(key string) (string, bool) {
	for _, p := range n.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ParentID returns the ID of the parent node, or "" for top-level nodes.
func (n *Node) ParentID() string {
	i := strings.LastIndex(n.ID, "/")
	if i < 0 {
		return ""
	}
	return n.ID[:i]
}

// Graph is the read side shared by the in-memory store and the SQLite writer.
type Graph interface {
	GetNode(id string) (*Node, error)
	ListChildren(id string) ([]string, error)
	FindByType(typ string) ([]*Node, error)
}

// MemoryStore keeps nodes in memory, with roaring bitmap indexes from
// node type and source file to nodes.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	roots []string

	typeToNodes   map[string]*roaring.Bitmap // Node.Type → internal IDs
	sourceToNodes map[string]*roaring.Bitmap // Node.Source → internal IDs
	nodeIntID     map[string]uint32          // Node.ID → internal ID
	intToNodeID   []string                   // internal ID → Node.ID
	nextIntID     uint32
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:         make(map[string]*Node),
		roots:         []string{},
		typeToNodes:   make(map[string]*roaring.Bitmap),
		sourceToNodes: make(map[string]*roaring.Bitmap),
		nodeIntID:     make(map[string]uint32),
	}
}

// AddRoot registers a node as a top-level root and adds it to the store.
func (s *MemoryStore) AddRoot(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(n)
	for _, r := range s.roots {
		if r == n.ID {
			return
		}
	}
	s.roots = append(s.roots, n.ID)
}

// AddNode adds a non-root node to the store, replacing any node with the same ID.
func (s *MemoryStore) AddNode(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(n)
}

// put must be called with s.mu held.
func (s *MemoryStore) put(n *Node) {
	if old, ok := s.nodes[n.ID]; ok {
		s.unindex(old)
	}
	s.nodes[n.ID] = n
	s.index(n)
}

// index assigns an internal bitmap ID and registers n in the type and source
// bitmaps. Must be called with s.mu held.
func (s *MemoryStore) index(n *Node) {
	intID, ok := s.nodeIntID[n.ID]
	if !ok {
		intID = s.nextIntID
		s.nextIntID++
		s.nodeIntID[n.ID] = intID
		s.intToNodeID = append(s.intToNodeID, n.ID)
	}
	addBit(s.typeToNodes, n.Type, intID)
	if n.Source != "" {
		addBit(s.sourceToNodes, n.Source, intID)
	}
}

func (s *MemoryStore) unindex(n *Node) {
	intID, ok := s.nodeIntID[n.ID]
	if !ok {
		return
	}
	removeBit(s.typeToNodes, n.Type, intID)
	removeBit(s.sourceToNodes, n.Source, intID)
}

func addBit(idx map[string]*roaring.Bitmap, key string, id uint32) {
	bm, ok := idx[key]
	if !ok {
		bm = roaring.New()
		idx[key] = bm
	}
	bm.Add(id)
}

func removeBit(idx map[string]*roaring.Bitmap, key string, id uint32) {
	bm, ok := idx[key]
	if !ok {
		return
	}
	bm.Remove(id)
	if bm.IsEmpty() {
		delete(idx, key)
	}
}

// nodesIn resolves a bitmap into nodes, in insertion order. Must be called
// with s.mu held.
func (s *MemoryStore) nodesIn(bm *roaring.Bitmap) []*Node {
	out := make([]*Node, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		intID := it.Next()
		if int(intID) >= len(s.intToNodeID) {
			continue
		}
		if n, ok := s.nodes[s.intToNodeID[intID]]; ok {
			out = append(out, n)
		}
	}
	return out
}

// FindByType returns every node of the given type, in insertion order.
func (s *MemoryStore) FindByType(typ string) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bm, ok := s.typeToNodes[typ]
	if !ok {
		return nil, nil
	}
	return s.nodesIn(bm), nil
}

// Types returns the number of stored nodes per type.
func (s *MemoryStore) Types() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]uint64, len(s.typeToNodes))
	for typ, bm := range s.typeToNodes {
		out[typ] = bm.GetCardinality()
	}
	return out
}

// DeleteSource removes all nodes that were read from the given source file,
// and any root or child references to them.
func (s *MemoryStore) DeleteSource(source string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	bm, ok := s.sourceToNodes[source]
	if !ok {
		return 0
	}
	doomed := s.nodesIn(bm)
	deleteSet := make(map[string]struct{}, len(doomed))
	for _, n := range doomed {
		deleteSet[n.ID] = struct{}{}
		s.unindex(n)
		delete(s.nodes, n.ID)
		if intID, ok := s.nodeIntID[n.ID]; ok {
			delete(s.nodeIntID, n.ID)
			s.intToNodeID[intID] = ""
		}
	}

	s.roots = without(s.roots, deleteSet)
	for _, n := range s.nodes {
		if len(n.Children) > 0 {
			n.Children = without(n.Children, deleteSet)
		}
	}
	return len(doomed)
}

// without returns a new slice, leaving slices handed out by ListChildren intact.
func without(ids []string, drop map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, del := drop[id]; !del {
			out = append(out, id)
		}
	}
	return out
}

// GetNode implements Graph.
func (s *MemoryStore) GetNode(id string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Normalize path: remove leading slash
	id = strings.TrimPrefix(id, "/")

	n, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

// ListChildren implements Graph.
func (s *MemoryStore) ListChildren(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Root case
	if id == "" || id == "/" {
		return s.roots, nil
	}

	id = strings.TrimPrefix(id, "/")
	n, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n.Children, nil
}

// Len returns the number of stored nodes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// IDs returns all node IDs, sorted.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var _ Graph = (*MemoryStore)(nil)
