package tree

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Property is a single key/value pair, as returned by Properties.Pairs.
type Property struct {
	Key   string
	Value string
}

// Properties is an insertion-ordered string map. Overwriting a key keeps its
// original position.
type Properties struct {
	m *orderedmap.OrderedMap[string, string]
}

func newProperties() *Properties {
	return &Properties{m: orderedmap.New[string, string]()}
}

// Put stores value under key verbatim. Empty values are kept.
func (p *Properties) Put(key, value string) {
	p.m.Set(key, value)
}

// PutNonEmpty trims value and stores it only if something is left.
// An existing entry for key is left untouched when the trimmed value is empty.
func (p *Properties) PutNonEmpty(key, value string) {
	v := strings.TrimSpace(value)
	if v == "" {
		return
	}
	p.m.Set(key, v)
}

// Get returns the value for key.
func (p *Properties) Get(key string) (string, bool) {
	return p.m.Get(key)
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.m.Get(key)
	return ok
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	return p.m.Len()
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Pairs returns a copy of the entries in insertion order.
func (p *Properties) Pairs() []Property {
	out := make([]Property, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Property{Key: pair.Key, Value: pair.Value})
	}
	return out
}

// Map returns an unordered copy of the entries.
func (p *Properties) Map() map[string]string {
	out := make(map[string]string, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
