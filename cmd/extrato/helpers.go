package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mvbarbosa/extrato/internal/ai"
	"github.com/mvbarbosa/extrato/internal/config"
	"github.com/mvbarbosa/extrato/internal/service"
	"github.com/mvbarbosa/extrato/internal/storage"
)

// initStorage opens the SQLite database and brings the schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/extrato/extrato.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initClassifier builds the AI tier from configuration. Returns nil without
// error when no API key is configured; callers treat a nil classifier as
// rules-only operation.
func initClassifier(ledger service.UsageLedger) (*ai.Classifier, error) {
	apiKey := viper.GetString("ai.api_key")
	if apiKey == "" {
		return nil, nil
	}

	strategy, err := ai.ParseStrategy(viper.GetString("ai.strategy"))
	if err != nil {
		return nil, err
	}

	completer, err := ai.NewOpenAIClient(apiKey, viper.GetString("ai.base_url"))
	if err != nil {
		return nil, err
	}

	return ai.NewClassifier(completer, ledger, ai.Config{
		Model:               viper.GetString("ai.model"),
		Strategy:            strategy,
		MonthlyBudgetUSD:    viper.GetFloat64("ai.monthly_budget_usd"),
		AllowBudgetOverride: viper.GetBool("ai.allow_budget_override"),
		CacheTTL:            viper.GetDuration("ai.cache_ttl"),
		RequestsPerMinute:   viper.GetInt("ai.requests_per_minute"),
	}), nil
}
