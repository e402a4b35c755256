package ingest

import (
	"github.com/agentic-research/packtree/api"
	"github.com/agentic-research/packtree/internal/tree"
)

// DefaultClassifier classifies nothing as a property, so every element with
// structure is recursed into.
var DefaultClassifier Classifier = ClassifierFunc(func(string, *tree.Branch) bool { return false })

// RuleClassifier flattens children matching a profile rule. It is read-only
// after construction and safe for concurrent use.
type RuleClassifier struct {
	anyParent map[string]struct{}
	byParent  map[string]map[string]struct{} // parent type -> tags
}

// NewRuleClassifier builds a classifier from profile rules.
func NewRuleClassifier(rules []api.PropertyRule) *RuleClassifier {
	c := &RuleClassifier{
		anyParent: make(map[string]struct{}),
		byParent:  make(map[string]map[string]struct{}),
	}
	for _, r := range rules {
		if r.Parent == "" {
			c.anyParent[r.Tag] = struct{}{}
			continue
		}
		tags, ok := c.byParent[r.Parent]
		if !ok {
			tags = make(map[string]struct{})
			c.byParent[r.Parent] = tags
		}
		tags[r.Tag] = struct{}{}
	}
	return c
}

// IsProperty implements Classifier.
func (c *RuleClassifier) IsProperty(tag string, node *tree.Branch) bool {
	if _, ok := c.anyParent[tag]; ok {
		return true
	}
	if node == nil {
		return false
	}
	_, ok := c.byParent[node.Type()][tag]
	return ok
}
