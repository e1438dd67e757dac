package dedupe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("acc-1", "2024-01-15", "UBER TRIP", dec("-34.50"))
	b := Key("acc-1", "2024-01-15", "UBER TRIP", dec("-34.50"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestKeyNormalizesDescription(t *testing.T) {
	a := Key("acc-1", "2024-01-15", "  uber   trip  ", dec("-34.50"))
	b := Key("acc-1", "2024-01-15", "UBER TRIP", dec("-34.50"))
	assert.Equal(t, a, b)

	c := Key("acc-1", "2024-01-15", "CARTÃO CRÉDITO", dec("-34.50"))
	d := Key("acc-1", "2024-01-15", "CARTAO CREDITO", dec("-34.50"))
	assert.Equal(t, c, d)
}

func TestKeySignMatters(t *testing.T) {
	debit := Key("acc-1", "2024-01-15", "AJUSTE", dec("-10.00"))
	credit := Key("acc-1", "2024-01-15", "AJUSTE", dec("10.00"))
	assert.NotEqual(t, debit, credit)
}

func TestKeyVariesPerField(t *testing.T) {
	base := Key("acc-1", "2024-01-15", "MERCADO", dec("-50.00"))

	assert.NotEqual(t, base, Key("acc-2", "2024-01-15", "MERCADO", dec("-50.00")))
	assert.NotEqual(t, base, Key("acc-1", "2024-01-16", "MERCADO", dec("-50.00")))
	assert.NotEqual(t, base, Key("acc-1", "2024-01-15", "PADARIA", dec("-50.00")))
	assert.NotEqual(t, base, Key("acc-1", "2024-01-15", "MERCADO", dec("-50.01")))
}

func TestKeyAmountScaleDoesNotMatter(t *testing.T) {
	a := Key("acc-1", "2024-01-15", "MERCADO", dec("-50"))
	b := Key("acc-1", "2024-01-15", "MERCADO", dec("-50.00"))
	assert.Equal(t, a, b)
}
