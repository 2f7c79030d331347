package domain

// MergedFeatureRow extends DailyAccountMetric with the sentiment label for
// that date and account-scoped lag/rolling features.
//
// Lag and rolling fields are nil while there is insufficient same-account
// history; a single blanket fill replaces remaining nils with zero after all
// derivations (never before, or the lag semantics would be corrupted).
type MergedFeatureRow struct {
	DailyAccountMetric

	// Classification is the sentiment label for Date, or "" when the
	// sentiment table had no row for that date.
	Classification string

	PnLLag1         *float64 // daily_pnl of the previous same-account date
	PnLRoll3        *float64 // mean daily_pnl over current + 2 preceding rows
	WinRateLag1     *float64
	TradeCountRoll3 *float64
}

// Sentiment codes derived from the classification label.
const (
	SentimentGreed   = 1
	SentimentNeutral = 0
	SentimentFear    = -1
)

// LabeledFeatureRow extends MergedFeatureRow with the supervised-learning
// targets. NextDailyPnL is the same account's daily_pnl one day-step ahead
// in sorted order; it is nil on an account's last recorded date, and such
// rows are excluded from the final labeled set.
type LabeledFeatureRow struct {
	MergedFeatureRow

	SentimentCode    int
	NextDailyPnL     *float64
	TargetProfitNext int      // 1 iff NextDailyPnL > 0
	NextDailyPnLLog  *float64 // sign-preserving log1p of NextDailyPnL
}

// FeatureColumns is the fixed column order of the feature matrix.
var FeatureColumns = []string{
	"sentiment_code",
	"win_rate",
	"avg_trade_size",
	"trade_count",
	"pnl_lag1",
	"pnl_roll3",
	"winrate_lag1",
	"tradecount_roll3",
}

// FeatureSet is the model-ready output of the pipeline: the feature matrix,
// the binary and regression targets, and the labeled source rows aligned
// row-for-row with both.
type FeatureSet struct {
	Columns []string
	X       [][]float64
	Target  []int     // target_profit_next
	LogPnL  []float64 // next_daily_pnl_log
	Rows    []*LabeledFeatureRow
}
