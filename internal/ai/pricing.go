package ai

// modelPricing holds USD cost per one million tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// Published per-model prices. Unknown models are billed at the most
// expensive known rate so cost tracking errs high rather than silently
// undercounting.
var pricingTable = map[string]modelPricing{
	"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4-turbo": {InputPerMillion: 10.00, OutputPerMillion: 30.00},
}

var fallbackPricing = modelPricing{InputPerMillion: 10.00, OutputPerMillion: 30.00}

// Cost computes the USD cost of one completion.
func Cost(model string, promptTokens, completionTokens int) float64 {
	p, ok := pricingTable[model]
	if !ok {
		p = fallbackPricing
	}
	return float64(promptTokens)/1_000_000*p.InputPerMillion +
		float64(completionTokens)/1_000_000*p.OutputPerMillion
}
