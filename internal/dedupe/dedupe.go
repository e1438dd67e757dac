// Package dedupe derives the stable identity of a transaction so the same
// movement imported twice, from the same or a re-downloaded file, collapses
// to one row.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/normalize"
)

// Key computes the deduplication key for a transaction. The description is
// normalized first so cosmetic differences between exports of the same file
// (casing, accents, spacing) do not defeat the match. The amount is signed:
// a credit and a debit of the same value on the same day are distinct
// movements.
func Key(accountID, isoDate, description string, signedAmount decimal.Decimal) string {
	payload := fmt.Sprintf("%s|%s|%s|%s",
		isoDate,
		signedAmount.StringFixed(2),
		normalize.Description(description),
		accountID,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
