// Package rules implements deterministic transaction classification from
// user-managed rules. Rules are the first and cheapest classification tier;
// anything they match never reaches the AI fallback.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/normalize"
)

// Engine evaluates a fixed rule set against transaction descriptions. Build
// one per batch with NewEngine; the rule slice is sorted once at
// construction.
type Engine struct {
	rules []model.ClassificationRule
}

// NewEngine returns an engine over the active subset of rules, ordered by
// Ordem ascending with CategoryID as the lexicographic tie break so equal
// priorities still classify deterministically.
func NewEngine(all []model.ClassificationRule) *Engine {
	active := make([]model.ClassificationRule, 0, len(all))
	for _, r := range all {
		if r.Active {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Ordem != active[j].Ordem {
			return active[i].Ordem < active[j].Ordem
		}
		return active[i].CategoryID < active[j].CategoryID
	})
	return &Engine{rules: active}
}

// Len reports how many rules the engine evaluates.
func (e *Engine) Len() int { return len(e.rules) }

// Classify matches the description against the rule set and returns the
// winning rule's category, or a result with Source none when nothing
// matches. The description is normalized once; every rule kind matches
// against that normalized form.
func (e *Engine) Classify(description string) model.ClassificationResult {
	norm := normalize.Description(description)
	if norm == "" {
		return model.ClassificationResult{Source: model.SourceNone}
	}

	for _, r := range e.rules {
		if ruleMatches(r, norm) {
			return model.ClassificationResult{
				CategoryID: r.CategoryID,
				Source:     model.SourceRule,
				Score:      1.0,
				Tags:       r.Tags,
				Reason:     fmt.Sprintf("regra #%d: %s('%s')", r.Ordem, r.Kind, r.Expression),
			}
		}
	}

	return model.ClassificationResult{Source: model.SourceNone}
}

// ruleMatches applies one rule to an already-normalized description. An
// expression that fails to compile as a regex is treated as a non-match, not
// an error; a broken rule must never halt a batch.
func ruleMatches(r model.ClassificationRule, norm string) bool {
	switch r.Kind {
	case model.RuleRegex:
		ok, err := common.MatchRegex("(?i)"+r.Expression, norm)
		if err != nil {
			return false
		}
		return ok
	case model.RuleContains:
		return strings.Contains(norm, normalize.Description(r.Expression))
	case model.RuleStarts:
		return strings.HasPrefix(norm, normalize.Description(r.Expression))
	case model.RuleEnds:
		return strings.HasSuffix(norm, normalize.Description(r.Expression))
	default:
		return false
	}
}
