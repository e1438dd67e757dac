package model

import "time"

// AIUsageRecord is one entry in the append-only ledger of paid classifier
// calls. The pipeline only ever appends and sums this ledger; it never
// updates or deletes records.
type AIUsageRecord struct {
	Timestamp   time.Time
	ID          string
	Model       string
	TokensTotal int
	CostUSD     float64
}
