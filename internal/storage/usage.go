package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/mvbarbosa/extrato/internal/model"
)

// LogUsage appends one record to the AI usage ledger.
func (s *SQLiteStorage) LogUsage(ctx context.Context, record model.AIUsageRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(record.ID, "record.ID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage (id, timestamp, model, tokens_total, cost_usd)
		VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Timestamp.UTC(), record.Model, record.TokensTotal, record.CostUSD)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

// monthBounds returns the UTC half-open interval covering one calendar
// month.
func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// SumCostForMonth totals the ledger for one calendar month. This is the
// number the budget gate compares against the monthly limit.
func (s *SQLiteStorage) SumCostForMonth(ctx context.Context, year int, month time.Month) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	start, end := monthBounds(year, month)
	var sum float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost_usd), 0) FROM ai_usage
		WHERE timestamp >= ? AND timestamp < ?`,
		start, end).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum usage cost: %w", err)
	}
	return sum, nil
}

// GetUsage returns the individual ledger entries for one calendar month,
// oldest first.
func (s *SQLiteStorage) GetUsage(ctx context.Context, year int, month time.Month) ([]model.AIUsageRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	start, end := monthBounds(year, month)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, model, tokens_total, cost_usd FROM ai_usage
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.AIUsageRecord
	for rows.Next() {
		var r model.AIUsageRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Model, &r.TokensTotal, &r.CostUSD); err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage records: %w", err)
	}
	return out, nil
}
