package domain

import "time"

// DailyAccountMetric aggregates one account's trades over one calendar day.
// Computed once per pipeline run from the full cleaned trade set; immutable
// thereafter.
type DailyAccountMetric struct {
	Date    time.Time
	Account string

	DailyPnL   float64
	TradeCount int // rows with a coerced pnl value

	// Size statistics are nil when no row in the group carried a usable
	// trade_size.
	AvgTradeSize    *float64
	MedianTradeSize *float64

	// WorstTradePnL is the minimum pnl of the group (drawdown proxy),
	// nil when no pnl value coerced.
	WorstTradePnL *float64

	// AvgLeverage is only populated when the source table had a leverage
	// column.
	AvgLeverage *float64

	WinCount  int // pnl > 0
	LossCount int // pnl <= 0
	WinRate   float64

	// Long/short counts are only populated when the source table had a
	// side column. LongShortRatio falls back to LongCount when ShortCount
	// is zero; see the aggregator docs for the rationale.
	LongCount      *int
	ShortCount     *int
	LongShortRatio *float64
}
