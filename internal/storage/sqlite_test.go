package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testTransaction(i int) model.StoredTransaction {
	return model.StoredTransaction{
		ID:          fmt.Sprintf("txn-%03d", i),
		AccountID:   "acc-1",
		DedupKey:    fmt.Sprintf("dedup-%03d", i),
		ISODate:     "2024-03-15",
		Description: fmt.Sprintf("COMPRA %d", i),
		Amount:      decimal.New(-1050, -2),
		Kind:        model.KindDebito,
		Source:      model.SourceNone,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveTransactionsReportsDuplicates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.StoredTransaction{testTransaction(1), testTransaction(2)}
	stats, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, service.ImportStats{Imported: 2}, stats)

	// Same dedup keys under new IDs: the unique index must reject them.
	dup1 := testTransaction(1)
	dup1.ID = "txn-re-imported"
	stats, err = store.SaveTransactions(ctx, []model.StoredTransaction{dup1, testTransaction(3)})
	require.NoError(t, err)
	assert.Equal(t, service.ImportStats{Imported: 1, Duplicates: 1}, stats)

	all, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveTransactionsSameDedupKeyDifferentAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	a := testTransaction(1)
	b := testTransaction(1)
	b.ID = "txn-other-account"
	b.AccountID = "acc-2"

	stats, err := store.SaveTransactions(ctx, []model.StoredTransaction{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)
}

func TestGetTransactionByID(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, []model.StoredTransaction{testTransaction(1)})
	require.NoError(t, err)

	got, err := store.GetTransactionByID(ctx, "txn-001")
	require.NoError(t, err)
	assert.Equal(t, "COMPRA 1", got.Description)
	assert.True(t, got.Amount.Equal(decimal.New(-1050, -2)))
	assert.Equal(t, model.KindDebito, got.Kind)

	_, err = store.GetTransactionByID(ctx, "txn-missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateTransactionCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, []model.StoredTransaction{testTransaction(1)})
	require.NoError(t, err)

	err = store.UpdateTransactionCategory(ctx, "txn-001", "cat-alimentacao", model.SourceAI, 0.91)
	require.NoError(t, err)

	got, err := store.GetTransactionByID(ctx, "txn-001")
	require.NoError(t, err)
	assert.Equal(t, "cat-alimentacao", got.CategoryID)
	assert.Equal(t, model.SourceAI, got.Source)
	assert.InDelta(t, 0.91, got.Confidence, 0.001)

	err = store.UpdateTransactionCategory(ctx, "txn-missing", "cat-x", model.SourceRule, 1.0)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetUnclassifiedTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.StoredTransaction{testTransaction(1), testTransaction(2), testTransaction(3)}
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	require.NoError(t, store.UpdateTransactionCategory(ctx, "txn-002", "cat-x", model.SourceRule, 1.0))

	unclassified, err := store.GetUnclassifiedTransactions(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, unclassified, 2)
	assert.Equal(t, "txn-001", unclassified[0].ID)
	assert.Equal(t, "txn-003", unclassified[1].ID)

	other, err := store.GetUnclassifiedTransactions(ctx, "acc-vazia")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGetTransactionsFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	early := testTransaction(1)
	early.ISODate = "2024-01-10"
	late := testTransaction(2)
	late.ISODate = "2024-05-20"

	_, err := store.SaveTransactions(ctx, []model.StoredTransaction{early, late})
	require.NoError(t, err)

	got, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-002", got[0].ID)

	got, err = store.GetTransactions(ctx, service.TransactionFilter{EndDate: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-001", got[0].ID)
}

func TestRuleCRUD(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rule := &model.ClassificationRule{
		Kind:       model.RuleContains,
		Expression: "UBER",
		CategoryID: "cat-transporte",
		Tags:       []string{"transporte", "app"},
		Active:     true,
	}
	require.NoError(t, store.CreateRule(ctx, rule))
	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, 1, rule.Ordem)

	second := &model.ClassificationRule{
		Kind:       model.RuleRegex,
		Expression: `pix\s+enviado`,
		CategoryID: "cat-pix",
		Active:     true,
	}
	require.NoError(t, store.CreateRule(ctx, second))
	assert.Equal(t, 2, second.Ordem)

	got, err := store.GetRuleByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"transporte", "app"}, got.Tags)

	got.Active = false
	require.NoError(t, store.UpdateRule(ctx, got))

	active, err := store.GetRules(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	all, err := store.GetRules(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, store.DeleteRule(ctx, rule.ID))
	_, err = store.GetRuleByID(ctx, rule.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateRuleRejectsBadRegex(t *testing.T) {
	store := createTestStorage(t)

	err := store.CreateRule(context.Background(), &model.ClassificationRule{
		Kind:       model.RuleRegex,
		Expression: `pix(`,
		CategoryID: "cat-pix",
		Active:     true,
	})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestCreateRuleRejectsUnknownKind(t *testing.T) {
	store := createTestStorage(t)

	err := store.CreateRule(context.Background(), &model.ClassificationRule{
		Kind:       model.RuleKind("glob"),
		Expression: "UBER*",
		CategoryID: "cat-x",
	})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestCategoryCRUD(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "cat-alimentacao", Name: "Alimentação", Direction: model.DirectionDespesa, Active: true,
	}))
	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "cat-salario", Name: "Salário", Direction: model.DirectionReceita, Active: true,
	}))

	all, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by name.
	assert.Equal(t, "cat-alimentacao", all[0].ID)

	got, err := store.GetCategoryByID(ctx, "cat-salario")
	require.NoError(t, err)
	assert.Equal(t, model.DirectionReceita, got.Direction)

	_, err = store.GetCategoryByID(ctx, "cat-missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.CreateCategory(ctx, &model.Category{ID: "cat-x", Name: "X", Direction: "lateral"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUsageLedger(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	march := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.LogUsage(ctx, model.AIUsageRecord{
		ID: "u1", Timestamp: march, Model: "gpt-4o-mini", TokensTotal: 150, CostUSD: 0.002,
	}))
	require.NoError(t, store.LogUsage(ctx, model.AIUsageRecord{
		ID: "u2", Timestamp: march.Add(time.Hour), Model: "gpt-4o-mini", TokensTotal: 200, CostUSD: 0.003,
	}))
	require.NoError(t, store.LogUsage(ctx, model.AIUsageRecord{
		ID: "u3", Timestamp: april, Model: "gpt-4o", TokensTotal: 400, CostUSD: 0.02,
	}))

	sum, err := store.SumCostForMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.InDelta(t, 0.005, sum, 1e-9)

	sum, err = store.SumCostForMonth(ctx, 2024, time.February)
	require.NoError(t, err)
	assert.Zero(t, sum)

	records, err := store.GetUsage(ctx, 2024, time.March)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "u1", records[0].ID)
}
