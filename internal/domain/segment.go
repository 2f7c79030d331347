package domain

// Rule-based trader segments, assigned per (date, account) metric row from
// median thresholds over daily_pnl and trade_count.
const (
	SegmentHighPerformer     = "High Performer"
	SegmentProfitableLowActv = "Profitable Low Activity"
	SegmentActiveTrader      = "Active Trader"
	SegmentLowPerformer      = "Low Performer"
)
