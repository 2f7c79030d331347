// Package segmentation assigns rule-based trader segments and clusters the
// feature matrix with k-means.
package segmentation

import (
	"sort"

	"trader-sentiment-lab/internal/domain"
)

// Thresholds are the rule-based segment cut points. Zero-value fields are
// replaced by the median of the corresponding metric over the input.
type Thresholds struct {
	PnL        *float64
	TradeCount *float64
}

// SegmentedMetric pairs a daily metric row with its assigned segment.
type SegmentedMetric struct {
	*domain.DailyAccountMetric
	Segment string
}

// AssignSegments labels each (date, account) metric row with one of the
// four trader segments. Unset thresholds default to the median daily_pnl
// and median trade_count of the full input.
func AssignSegments(metrics []*domain.DailyAccountMetric, th Thresholds) []SegmentedMetric {
	pnlTh := resolveThreshold(th.PnL, metrics, func(m *domain.DailyAccountMetric) float64 {
		return m.DailyPnL
	})
	countTh := resolveThreshold(th.TradeCount, metrics, func(m *domain.DailyAccountMetric) float64 {
		return float64(m.TradeCount)
	})

	out := make([]SegmentedMetric, len(metrics))
	for i, m := range metrics {
		out[i] = SegmentedMetric{
			DailyAccountMetric: m,
			Segment:            segmentFor(m, pnlTh, countTh),
		}
	}
	return out
}

func segmentFor(m *domain.DailyAccountMetric, pnlTh, countTh float64) string {
	profitable := m.DailyPnL >= pnlTh
	active := float64(m.TradeCount) >= countTh
	switch {
	case profitable && active:
		return domain.SegmentHighPerformer
	case profitable:
		return domain.SegmentProfitableLowActv
	case active:
		return domain.SegmentActiveTrader
	}
	return domain.SegmentLowPerformer
}

func resolveThreshold(override *float64, metrics []*domain.DailyAccountMetric, value func(*domain.DailyAccountMetric) float64) float64 {
	if override != nil {
		return *override
	}
	if len(metrics) == 0 {
		return 0
	}
	values := make([]float64, len(metrics))
	for i, m := range metrics {
		values[i] = value(m)
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
