// Package engine orchestrates batch classification: a synchronous rules pass
// over every transaction, then a bounded concurrent AI pass over whatever
// the rules left unmatched.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/rules"
)

// defaultMaxWorkers bounds concurrent AI calls. The rate limiter below it
// paces requests; this bound caps how many are in flight at once.
const defaultMaxWorkers = 5

// SuggestionClassifier is the AI tier as the orchestrator sees it.
type SuggestionClassifier interface {
	Classify(ctx context.Context, description string, amount decimal.Decimal, kind model.TransactionKind, categories []model.Category) (model.ClassificationResult, error)
}

// Config tunes the orchestrator.
type Config struct {
	MaxWorkers int
}

// Outcome pairs one transaction with its classification attempt. Err is set
// only for AI-tier failures; a transaction nothing matched has a zero result
// with Source none and no error.
type Outcome struct {
	Err         error
	Transaction model.StoredTransaction
	Result      model.ClassificationResult
}

// Summary aggregates one batch run.
type Summary struct {
	Total        int
	ByRule       int
	ByAI         int
	ByCache      int
	Failed       int
	Unclassified int
	APICalls     int
}

// Orchestrator runs the two-tier classification over a batch.
type Orchestrator struct {
	rules *rules.Engine
	ai    SuggestionClassifier
	cfg   Config
}

// New builds an orchestrator. ai may be nil, in which case rule misses stay
// unclassified instead of going to the API.
func New(rulesEngine *rules.Engine, ai SuggestionClassifier, cfg Config) *Orchestrator {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultMaxWorkers
	}
	return &Orchestrator{rules: rulesEngine, ai: ai, cfg: cfg}
}

// ClassifyBatch classifies every transaction and reports per-item outcomes
// in input order plus an aggregate summary. Individual failures never abort
// the batch; there are no automatic retries at this level.
func (o *Orchestrator) ClassifyBatch(ctx context.Context, txns []model.StoredTransaction, categories []model.Category) ([]Outcome, Summary) {
	outcomes := make([]Outcome, len(txns))
	summary := Summary{Total: len(txns)}

	// Tier one: rules, synchronous and cheap.
	var misses []int
	for i, txn := range txns {
		outcomes[i].Transaction = txn
		res := o.rules.Classify(txn.Description)
		if res.Classified() {
			outcomes[i].Result = res
			continue
		}
		misses = append(misses, i)
	}

	// Tier two: AI fan-out over the misses, bounded by a semaphore.
	if o.ai != nil && len(misses) > 0 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, o.cfg.MaxWorkers)

		for _, idx := range misses {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()

				txn := outcomes[i].Transaction
				res, err := o.ai.Classify(ctx, txn.Description, txn.Amount, txn.Kind, categories)
				if err != nil {
					outcomes[i].Err = err
					slog.Debug("AI classification failed",
						"transaction_id", txn.ID,
						"error", err)
					return
				}
				outcomes[i].Result = res
			}(idx)
		}
		wg.Wait()
	}

	for i := range outcomes {
		switch {
		case outcomes[i].Err != nil:
			summary.Failed++
		case outcomes[i].Result.Source == model.SourceRule:
			summary.ByRule++
		case outcomes[i].Result.Source == model.SourceAI:
			summary.ByAI++
			summary.APICalls++
		case outcomes[i].Result.Source == model.SourceCache:
			summary.ByCache++
		default:
			summary.Unclassified++
		}
	}

	return outcomes, summary
}
