package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/service"
)

// warnThreshold is the fraction of the monthly budget at which spending
// starts being logged loudly.
const warnThreshold = 0.8

// budgetGate enforces the monthly AI spending cap. It reads accumulated
// cost from the usage ledger, so the cap holds across process restarts.
type budgetGate struct {
	ledger        service.UsageLedger
	monthlyLimit  float64
	allowOverride bool
}

// check returns nil when a new API call is allowed. A limit of zero or less
// disables the gate entirely.
func (g *budgetGate) check(ctx context.Context) error {
	if g.monthlyLimit <= 0 {
		return nil
	}

	now := time.Now()
	spent, err := g.ledger.SumCostForMonth(ctx, now.Year(), now.Month())
	if err != nil {
		return fmt.Errorf("consultar gasto mensal: %w", err)
	}

	if spent >= g.monthlyLimit {
		if g.allowOverride {
			slog.Warn("monthly AI budget exceeded, proceeding due to override",
				"spent_usd", spent,
				"limit_usd", g.monthlyLimit)
			return nil
		}
		return fmt.Errorf("%w: US$ %.2f de US$ %.2f", common.ErrBudgetExceeded, spent, g.monthlyLimit)
	}

	if spent >= g.monthlyLimit*warnThreshold {
		slog.Warn("monthly AI budget above warning threshold",
			"spent_usd", spent,
			"limit_usd", g.monthlyLimit)
	}

	return nil
}
