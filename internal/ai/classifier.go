package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/service"
)

// minCacheConfidence gates cache writes: low-confidence guesses are not
// worth replaying onto future transactions with the same description.
const minCacheConfidence = 0.7

// DefaultModel is used when the configuration does not name one.
const DefaultModel = "gpt-4o-mini"

// Config tunes the classifier.
type Config struct {
	Model               string
	Strategy            Strategy
	MonthlyBudgetUSD    float64
	AllowBudgetOverride bool
	CacheTTL            time.Duration
	RequestsPerMinute   int
}

// Classifier is the AI classification tier. Every Classify call walks the
// same gauntlet: cache, budget, rate limit, API call with retries, strict
// response validation. Only a validated answer reaches the caller.
type Classifier struct {
	completer service.ChatCompleter
	ledger    service.UsageLedger
	budget    *budgetGate
	cache     *suggestionCache
	limiter   *rate.Limiter
	retryOpts service.RetryOptions
	model     string
	strategy  Strategy
}

// NewClassifier wires a classifier from its collaborators.
func NewClassifier(completer service.ChatCompleter, ledger service.UsageLedger, cfg Config) *Classifier {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyBalanced
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Classifier{
		completer: completer,
		ledger:    ledger,
		budget: &budgetGate{
			ledger:        ledger,
			monthlyLimit:  cfg.MonthlyBudgetUSD,
			allowOverride: cfg.AllowBudgetOverride,
		},
		cache:    newSuggestionCache(cfg.CacheTTL),
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		model:    cfg.Model,
		strategy: cfg.Strategy,
	}
}

// Close releases the cache's background goroutine.
func (c *Classifier) Close() {
	c.cache.Close()
}

// Classify suggests a category for one transaction. The categories slice is
// the full active set; the classifier narrows it to the transaction's
// direction before prompting. The cache is keyed by description and kind
// only, so recurring charges with drifting amounts still hit. Returns
// common.ErrBudgetExceeded when the monthly cap refuses the call.
func (c *Classifier) Classify(ctx context.Context, description string, amount decimal.Decimal, kind model.TransactionKind, categories []model.Category) (model.ClassificationResult, error) {
	offered := model.FilterByDirection(categories, kind.Direction())
	if len(offered) == 0 {
		return model.ClassificationResult{}, fmt.Errorf("%w: nenhuma categoria disponível para %s", common.ErrClassificationFailed, kind)
	}

	key := cacheKey(description, kind)
	if cached, ok := c.cache.get(key); ok {
		cached.Source = model.SourceCache
		return cached, nil
	}

	if err := c.budget.check(ctx); err != nil {
		return model.ClassificationResult{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("rate limiter: %w", err)
	}

	temperature, maxTokens := c.strategy.Params()
	req := service.ChatCompletionRequest{
		Model:       c.model,
		System:      systemPrompt,
		User:        buildPrompt(description, amount, kind, offered),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var resp *service.ChatCompletionResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = c.completer.Complete(ctx, req)
		return callErr
	}, c.retryOpts)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	c.logUsage(ctx, resp)

	sug, err := parseSuggestion(resp.Content)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	category := findCategory(offered, sug.CategoryID)
	if category == nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: categoria %q não está entre as oferecidas", common.ErrClassificationFailed, sug.CategoryID)
	}

	result := model.ClassificationResult{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Source:       model.SourceAI,
		Score:        sug.Confidence,
		Reason:       sug.Reasoning,
	}

	if sug.Confidence >= minCacheConfidence {
		c.cache.set(key, result)
	}

	return result, nil
}

// logUsage records cost in the ledger. Failure to record is logged and
// swallowed: losing one ledger row is better than discarding a paid answer.
func (c *Classifier) logUsage(ctx context.Context, resp *service.ChatCompletionResponse) {
	record := model.AIUsageRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Model:       c.model,
		TokensTotal: resp.PromptTokens + resp.CompletionTokens,
		CostUSD:     Cost(c.model, resp.PromptTokens, resp.CompletionTokens),
	}
	if err := c.ledger.LogUsage(ctx, record); err != nil {
		slog.Error("failed to record AI usage", "error", err, "cost_usd", record.CostUSD)
	}
}

func findCategory(categories []model.Category, id string) *model.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
