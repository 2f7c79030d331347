// Package metrics aggregates cleaned trades into per-(date, account) daily
// performance metrics.
package metrics

import (
	"sort"

	"trader-sentiment-lab/internal/cleaning"
	"trader-sentiment-lab/internal/domain"
)

// groupKey identifies one (date, account) aggregation group.
type groupKey struct {
	dateUnix int64
	account  string
}

// group accumulates one (date, account) bucket before metric computation.
type group struct {
	date   domain.TradeRow // representative row for Date/Account
	pnls   []float64
	sizes  []float64
	levs   []float64
	longs  int
	shorts int
}

// ComputeDaily derives one DailyAccountMetric per (date, account) group.
// Win/loss and long/short counts are materialized for every group key, so
// all-loss or all-short groups get explicit zeros instead of being dropped.
// Optional metrics (avg_leverage, long/short counts) are only populated when
// the source table carried the corresponding column. Output is sorted by
// (date, account) ascending.
func ComputeDaily(trades []domain.TradeRow, cols cleaning.Columns) []*domain.DailyAccountMetric {
	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0)

	for _, t := range trades {
		key := groupKey{dateUnix: t.Date.Unix(), account: t.Account}
		g, ok := groups[key]
		if !ok {
			g = &group{date: t}
			groups[key] = g
			order = append(order, key)
		}
		if t.PnL != nil {
			g.pnls = append(g.pnls, *t.PnL)
		}
		if t.TradeSize != nil {
			g.sizes = append(g.sizes, *t.TradeSize)
		}
		if t.Leverage != nil {
			g.levs = append(g.levs, *t.Leverage)
		}
		switch t.Side {
		case domain.SideLong:
			g.longs++
		case domain.SideShort:
			g.shorts++
		}
	}

	result := make([]*domain.DailyAccountMetric, 0, len(groups))
	for _, key := range order {
		result = append(result, computeGroup(groups[key], cols))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Account < result[j].Account
	})

	return result
}

func computeGroup(g *group, cols cleaning.Columns) *domain.DailyAccountMetric {
	m := &domain.DailyAccountMetric{
		Date:    g.date.Date,
		Account: g.date.Account,
	}

	// pnl-derived metrics only count rows whose pnl coerced; a nulled pnl
	// contributes to neither wins nor losses, keeping
	// win_count + loss_count == trade_count.
	m.TradeCount = len(g.pnls)
	for _, p := range g.pnls {
		m.DailyPnL += p
		if p > 0 {
			m.WinCount++
		} else {
			m.LossCount++
		}
	}
	if len(g.pnls) > 0 {
		worst := minOf(g.pnls)
		m.WorstTradePnL = &worst
	}
	m.WinRate = winRate(m.WinCount, m.LossCount)

	if len(g.sizes) > 0 {
		avg := mean(g.sizes)
		med := median(g.sizes)
		m.AvgTradeSize = &avg
		m.MedianTradeSize = &med
	}

	if cols.HasLeverage && len(g.levs) > 0 {
		avg := mean(g.levs)
		m.AvgLeverage = &avg
	}

	if cols.HasSide {
		longs, shorts := g.longs, g.shorts
		m.LongCount = &longs
		m.ShortCount = &shorts
		ratio := longShortRatio(longs, shorts)
		m.LongShortRatio = &ratio
	}

	return m
}

// winRate is wins / (wins + losses), 0 when the group has no counted trades.
func winRate(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// longShortRatio is long_count / short_count, except when short_count is 0,
// in which case it is long_count itself. Not a true ratio in the fallback
// case; kept for output compatibility with existing runs (known quirk).
func longShortRatio(longs, shorts int) float64 {
	if shorts == 0 {
		return float64(longs)
	}
	return float64(longs) / float64(shorts)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the midpoint of the sorted values (average of the two
// middle values for even counts). Input is not mutated.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func minOf(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
