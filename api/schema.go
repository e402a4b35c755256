package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Profile is the normalization configuration for one family of documents.
// It declares which child elements are flattened into properties instead of
// becoming nodes, and how source files are picked up.
type Profile struct {
	// Version of the profile format.
	Version string `json:"version" yaml:"version"`
	// PackType is stamped on every node produced with this profile.
	PackType string `json:"pack_type,omitempty" yaml:"pack_type,omitempty"`
	// MaxDepth caps element nesting. Zero means the normalizer default.
	MaxDepth int `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	// Extensions lists the file extensions ingested from directories.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	// Properties lists the elements treated as opaque properties.
	Properties []PropertyRule `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// PropertyRule marks a child element as a property of its parent node.
type PropertyRule struct {
	// Tag is the child element name.
	Tag string `json:"tag" yaml:"tag"`
	// Parent restricts the rule to parents of this type. Empty matches any parent.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// DefaultExtensions are ingested when a profile does not list its own.
var DefaultExtensions = []string{".pdsc", ".xml"}

// DefaultProfile flattens nothing: every element with structure becomes a node.
func DefaultProfile() *Profile {
	return &Profile{
		Version:    "v1",
		PackType:   "cmsis",
		Extensions: append([]string(nil), DefaultExtensions...),
	}
}

// LoadProfile reads a profile from a .json, .yaml or .yml file.
// Missing optional fields are filled from DefaultProfile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p := &Profile{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse profile %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse profile %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile extension: %s", ext)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	p.applyDefaults()
	return p, nil
}

// Validate checks the rules for obvious mistakes.
func (p *Profile) Validate() error {
	if p.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", p.MaxDepth)
	}
	for i, r := range p.Properties {
		if r.Tag == "" {
			return fmt.Errorf("properties[%d]: tag is required", i)
		}
	}
	return nil
}

func (p *Profile) applyDefaults() {
	def := DefaultProfile()
	if p.Version == "" {
		p.Version = def.Version
	}
	if p.PackType == "" {
		p.PackType = def.PackType
	}
	if len(p.Extensions) == 0 {
		p.Extensions = def.Extensions
	}
}

// Ingests reports whether a file name has one of the profile's extensions.
func (p *Profile) Ingests(name string) bool {
	exts := p.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
