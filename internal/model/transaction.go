// Package model defines the core domain types used throughout the application.
package model

import (
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money entering from money leaving an account.
type TransactionKind string

// Transaction kind constants. These mirror the vocabulary used by Brazilian
// bank statements, where every row is either a credit or a debit.
const (
	KindCredito TransactionKind = "credito"
	KindDebito  TransactionKind = "debito"
)

// Direction is the budgeting-side view of a transaction kind: credits are
// income (receita) and debits are expenses (despesa). Categories are
// partitioned by direction.
type Direction string

// Direction constants.
const (
	DirectionReceita Direction = "receita"
	DirectionDespesa Direction = "despesa"
)

// Direction maps a statement kind to its budgeting direction.
func (k TransactionKind) Direction() Direction {
	if k == KindCredito {
		return DirectionReceita
	}
	return DirectionDespesa
}

// RawTransaction is the canonical output of the statement parser: one ledger
// movement, still unclassified. Amount is always absolute; Kind carries the
// sign. Date preserves the bank-native string while ISODate is the
// normalized YYYY-MM-DD form used for hashing and persistence.
type RawTransaction struct {
	BalanceAfter     *decimal.Decimal
	Date             string
	ISODate          string
	Description      string
	Document         string
	OriginalCurrency string
	Kind             TransactionKind
	Amount           decimal.Decimal
	Line             int
}

// SignedAmount returns the amount with its natural sign: positive for
// credits, negative for debits.
func (t *RawTransaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindDebito {
		return t.Amount.Neg()
	}
	return t.Amount
}

// StoredTransaction is a transaction as persisted, carrying its dedup key and
// whatever classification it has accumulated.
type StoredTransaction struct {
	ID          string
	AccountID   string
	DedupKey    string
	ISODate     string
	Description string
	Document    string
	CategoryID  string
	Source      ClassificationSource
	Kind        TransactionKind
	Amount      decimal.Decimal
	Confidence  float64
}
