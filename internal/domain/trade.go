package domain

import "time"

// Side values after normalization ("buy"/"sell" are mapped during cleaning).
const (
	SideLong  = "long"
	SideShort = "short"
)

// TradeRow represents a single cleaned trade execution.
// Every retained row has a non-empty Account and a parsed Timestamp;
// rows failing either are dropped during cleaning, never repaired.
type TradeRow struct {
	Account   string
	Timestamp time.Time
	Date      time.Time // calendar-day floor of Timestamp (UTC)

	// Numeric fields are nullable: values that failed coercion are nil,
	// not dropped.
	PnL       *float64
	TradeSize *float64
	Leverage  *float64
	Price     *float64

	// Side is "long", "short", an unrecognized passthrough value,
	// or "" when the source had no side column.
	Side string
}

// SentimentDay is one row of the daily market-sentiment index.
// At most one row per Date survives cleaning (first occurrence wins).
type SentimentDay struct {
	Date           time.Time
	Classification string
}

// DayFloor truncates a timestamp to its UTC calendar day.
func DayFloor(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
