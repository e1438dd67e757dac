package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/service"
)

// SaveTransactions persists a batch of transactions. Duplicates, meaning
// rows whose (account_id, dedup_key) already exists, are silently skipped by
// INSERT OR IGNORE and reported in the stats rather than treated as errors.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.StoredTransaction) (service.ImportStats, error) {
	var stats service.ImportStats
	if err := validateContext(ctx); err != nil {
		return stats, err
	}
	if len(transactions) == 0 {
		return stats, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions
		(id, account_id, dedup_key, iso_date, description, document, amount, kind, category_id, source, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		res, execErr := stmt.ExecContext(ctx,
			txn.ID,
			txn.AccountID,
			txn.DedupKey,
			txn.ISODate,
			txn.Description,
			nullString(txn.Document),
			txn.Amount.String(),
			string(txn.Kind),
			nullString(txn.CategoryID),
			string(txn.Source),
			txn.Confidence,
		)
		if execErr != nil {
			return service.ImportStats{}, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, execErr)
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return service.ImportStats{}, fmt.Errorf("failed to read rows affected: %w", raErr)
		}
		if affected == 0 {
			stats.Duplicates++
		} else {
			stats.Imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return service.ImportStats{}, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return stats, nil
}

const transactionColumns = `id, account_id, dedup_key, iso_date, description,
	COALESCE(document, ''), amount, kind, COALESCE(category_id, ''), source, confidence`

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.StoredTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conds []string
	var args []any

	if filter.AccountID != "" {
		conds = append(conds, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.StartDate != "" {
		conds = append(conds, "iso_date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conds = append(conds, "iso_date <= ?")
		args = append(args, filter.EndDate)
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY iso_date DESC, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionByID fetches one transaction or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.StoredTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// GetUnclassifiedTransactions returns transactions with no category,
// optionally scoped to one account, oldest first so classification follows
// statement order.
func (s *SQLiteStorage) GetUnclassifiedTransactions(ctx context.Context, accountID string) ([]model.StoredTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + transactionColumns + ` FROM transactions
		WHERE (category_id IS NULL OR category_id = '')`
	var args []any
	if accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}
	query += " ORDER BY iso_date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unclassified transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// UpdateTransactionCategory records a classification outcome on a stored
// transaction.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id, categoryID string, source model.ClassificationSource, confidence float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET category_id = ?, source = ?, confidence = ? WHERE id = ?",
		categoryID, string(source), confidence, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.StoredTransaction, error) {
	var txn model.StoredTransaction
	var amount, kind, source string

	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.DedupKey,
		&txn.ISODate,
		&txn.Description,
		&txn.Document,
		&amount,
		&kind,
		&txn.CategoryID,
		&source,
		&txn.Confidence,
	)
	if err != nil {
		return nil, err
	}

	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q is not a decimal: %w", amount, err)
	}
	txn.Kind = model.TransactionKind(kind)
	txn.Source = model.ClassificationSource(source)
	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.StoredTransaction, error) {
	var out []model.StoredTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
