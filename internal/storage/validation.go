// Package storage provides the data persistence layer for the extrato
// application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mvbarbosa/extrato/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRule    = errors.New("invalid rule")
	ErrInvalidCategory = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRule checks structural validity before a rule touches the
// database. Regex expressions must compile here so a broken rule is rejected
// at creation instead of silently never matching.
func validateRule(rule *model.ClassificationRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if !rule.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, rule.Kind)
	}
	if strings.TrimSpace(rule.Expression) == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidRule)
	}
	if strings.TrimSpace(rule.CategoryID) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidRule)
	}
	if rule.Kind == model.RuleRegex {
		if _, err := regexp.Compile(rule.Expression); err != nil {
			return fmt.Errorf("%w: expression does not compile: %v", ErrInvalidRule, err)
		}
	}
	return nil
}

// validateCategory checks a category before insertion.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCategory)
	}
	if category.Direction != model.DirectionReceita && category.Direction != model.DirectionDespesa {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidCategory, category.Direction)
	}
	return nil
}
