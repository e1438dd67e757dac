package model

import "time"

// RuleKind selects the matching semantics of a classification rule. The set
// is closed: adding a new kind means touching the dispatch in the rules
// engine, which is a compile-time checkable change.
type RuleKind string

// Rule kind constants.
const (
	RuleRegex    RuleKind = "regex"
	RuleContains RuleKind = "contains"
	RuleStarts   RuleKind = "starts"
	RuleEnds     RuleKind = "ends"
)

// Valid reports whether k is one of the known rule kinds.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleRegex, RuleContains, RuleStarts, RuleEnds:
		return true
	}
	return false
}

// ClassificationRule maps a description pattern to a category. Rules are
// user-owned and mutated through CRUD; during a classification run the
// engine treats the loaded set as read-only.
//
// Ordem is the user-facing priority: lower fires first. Two active rules may
// share the same Ordem (the UI permits it); ties are broken by CategoryID so
// the outcome stays deterministic.
type ClassificationRule struct {
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ID         string
	Expression string
	CategoryID string
	Kind       RuleKind
	Tags       []string
	Ordem      int
	Active     bool
}
