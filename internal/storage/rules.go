package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
)

const ruleColumns = `id, kind, expression, category_id, ordem,
	COALESCE(tags, '[]'), active, created_at, updated_at`

// GetRules returns all rules, or only active ones, ordered the way the
// engine evaluates them.
func (s *SQLiteStorage) GetRules(ctx context.Context, activeOnly bool) ([]model.ClassificationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + ruleColumns + " FROM rules"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY ordem, category_id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ClassificationRule
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return out, nil
}

// GetRuleByID fetches one rule or common.ErrNotFound.
func (s *SQLiteStorage) GetRuleByID(ctx context.Context, id string) (*model.ClassificationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+ruleColumns+" FROM rules WHERE id = ?", id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rule %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// CreateRule validates and inserts a rule. A missing ID gets a fresh UUID; a
// non-positive Ordem is assigned the next free priority after the current
// maximum.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.ClassificationRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.Ordem <= 0 {
		var maxOrdem int
		err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(ordem), 0) FROM rules").Scan(&maxOrdem)
		if err != nil {
			return fmt.Errorf("failed to compute next ordem: %w", err)
		}
		rule.Ordem = maxOrdem + 1
	}

	tags, err := json.Marshal(rule.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rules (id, kind, expression, category_id, ordem, tags, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, string(rule.Kind), rule.Expression, rule.CategoryID,
		rule.Ordem, string(tags), rule.Active, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}
	return nil
}

// UpdateRule rewrites a rule in place.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.ClassificationRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := validateString(rule.ID, "rule.ID"); err != nil {
		return err
	}

	tags, err := json.Marshal(rule.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	rule.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE rules SET kind = ?, expression = ?, category_id = ?, ordem = ?,
			tags = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		string(rule.Kind), rule.Expression, rule.CategoryID, rule.Ordem,
		string(tags), rule.Active, rule.UpdatedAt, rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %s", common.ErrNotFound, rule.ID)
	}
	return nil
}

// DeleteRule removes a rule permanently.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %s", common.ErrNotFound, id)
	}
	return nil
}

func scanRule(row rowScanner) (*model.ClassificationRule, error) {
	var rule model.ClassificationRule
	var kind, tags string

	err := row.Scan(
		&rule.ID,
		&kind,
		&rule.Expression,
		&rule.CategoryID,
		&rule.Ordem,
		&tags,
		&rule.Active,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Kind = model.RuleKind(kind)
	if err := json.Unmarshal([]byte(tags), &rule.Tags); err != nil {
		return nil, fmt.Errorf("stored tags are not valid JSON: %w", err)
	}
	return &rule, nil
}
