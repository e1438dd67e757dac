package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
)

// GetCategories returns all categories ordered by name, active or not;
// callers that only want classifiable ones filter by direction afterwards.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, direction, active FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var direction string
		if err := rows.Scan(&c.ID, &c.Name, &direction, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Direction = model.Direction(direction)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return out, nil
}

// GetCategoryByID fetches one category or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var c model.Category
	var direction string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, direction, active FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &direction, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	c.Direction = model.Direction(direction)
	return &c, nil
}

// CreateCategory validates and inserts a category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, direction, active) VALUES (?, ?, ?, ?)",
		category.ID, category.Name, string(category.Direction), category.Active)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}
