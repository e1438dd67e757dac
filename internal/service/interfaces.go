// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mvbarbosa/extrato/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	StartDate  string
	EndDate    string
	Limit      int
	Offset     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.StoredTransaction) (ImportStats, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.StoredTransaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.StoredTransaction, error)
	GetUnclassifiedTransactions(ctx context.Context, accountID string) ([]model.StoredTransaction, error)
	UpdateTransactionCategory(ctx context.Context, id, categoryID string, source model.ClassificationSource, confidence float64) error

	// Rule operations
	GetRules(ctx context.Context, activeOnly bool) ([]model.ClassificationRule, error)
	GetRuleByID(ctx context.Context, id string) (*model.ClassificationRule, error)
	CreateRule(ctx context.Context, rule *model.ClassificationRule) error
	UpdateRule(ctx context.Context, rule *model.ClassificationRule) error
	DeleteRule(ctx context.Context, id string) error

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// UsageLedger records and aggregates AI spending.
type UsageLedger interface {
	LogUsage(ctx context.Context, record model.AIUsageRecord) error
	SumCostForMonth(ctx context.Context, year int, month time.Month) (float64, error)
	GetUsage(ctx context.Context, year int, month time.Month) ([]model.AIUsageRecord, error)
}

// ImportStats shows the outcome of persisting one parsed file.
type ImportStats struct {
	Imported   int
	Duplicates int
}

// ChatCompletionRequest is a provider-neutral chat call.
type ChatCompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ChatCompletionResponse carries the model output plus the token accounting
// needed for cost tracking.
type ChatCompletionResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// ChatCompleter is the minimal LLM surface the classifier needs.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
