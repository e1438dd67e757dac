// Package ai implements the LLM classification fallback: a budget-gated,
// rate-limited, cached path that only sees transactions no rule matched.
package ai

import "fmt"

// Strategy trades cost against answer quality by tuning the sampling
// parameters sent to the model.
type Strategy string

// Available strategies.
const (
	StrategyAggressive Strategy = "aggressive"
	StrategyBalanced   Strategy = "balanced"
	StrategyQuality    Strategy = "quality"
)

// Params returns the temperature and completion token cap for the strategy.
func (s Strategy) Params() (temperature float64, maxTokens int) {
	switch s {
	case StrategyAggressive:
		return 0.5, 150
	case StrategyQuality:
		return 0.1, 300
	default:
		return 0.3, 200
	}
}

// ParseStrategy validates a user-supplied strategy name. The empty string
// selects the balanced default.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyAggressive, StrategyBalanced, StrategyQuality:
		return Strategy(s), nil
	case "":
		return StrategyBalanced, nil
	}
	return "", fmt.Errorf("estratégia desconhecida: %q", s)
}
