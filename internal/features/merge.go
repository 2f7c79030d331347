// Package features left-joins daily metrics with the sentiment index and
// derives account-scoped lag and rolling-window features.
package features

import (
	"sort"

	"trader-sentiment-lab/internal/domain"
)

// rollWindow is the rolling-mean window: the current row plus the two
// preceding same-account rows in sorted order.
const rollWindow = 3

// MergeWithSentiment left-joins metrics to sentiment days on date (unmatched
// dates keep an empty classification, they are never dropped), sorts by
// (account, date) ascending, and computes pnl_lag1, pnl_roll3, winrate_lag1
// and tradecount_roll3 strictly within each account's own time-ordered
// subsequence. Lag and rolling values stay nil while an account has
// insufficient history; call Fill afterwards for the blanket zero-fill.
// Inputs are not mutated.
func MergeWithSentiment(metrics []*domain.DailyAccountMetric, sentiment []domain.SentimentDay) []*domain.MergedFeatureRow {
	byDate := make(map[int64]string, len(sentiment))
	for _, s := range sentiment {
		if _, exists := byDate[s.Date.Unix()]; !exists {
			byDate[s.Date.Unix()] = s.Classification
		}
	}

	rows := make([]*domain.MergedFeatureRow, len(metrics))
	for i, m := range metrics {
		rows[i] = &domain.MergedFeatureRow{
			DailyAccountMetric: *m,
			Classification:     byDate[m.Date.Unix()],
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Account != rows[j].Account {
			return rows[i].Account < rows[j].Account
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	// Per-account history windows. Rows are account-contiguous after the
	// sort, so a single pass with a reset on account change suffices; a
	// lag or rolling value never reads across an account boundary.
	var (
		account    string
		pnlHist    []float64
		countHist  []float64
		prevPnL    *float64
		prevWinRt  *float64
		haveActive bool
	)

	for _, r := range rows {
		if !haveActive || r.Account != account {
			account = r.Account
			pnlHist = pnlHist[:0]
			countHist = countHist[:0]
			prevPnL = nil
			prevWinRt = nil
			haveActive = true
		}

		r.PnLLag1 = copyPtr(prevPnL)
		r.WinRateLag1 = copyPtr(prevWinRt)

		pnlHist = append(pnlHist, r.DailyPnL)
		countHist = append(countHist, float64(r.TradeCount))
		r.PnLRoll3 = rollingMean(pnlHist)
		r.TradeCountRoll3 = rollingMean(countHist)

		pnl := r.DailyPnL
		winRate := r.WinRate
		prevPnL = &pnl
		prevWinRt = &winRate
	}

	return rows
}

// rollingMean returns the mean of the trailing rollWindow values, or nil
// when fewer values are available.
func rollingMean(hist []float64) *float64 {
	if len(hist) < rollWindow {
		return nil
	}
	sum := 0.0
	for _, v := range hist[len(hist)-rollWindow:] {
		sum += v
	}
	mean := sum / rollWindow
	return &mean
}

func copyPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Fill applies the blanket zero-fill: every remaining nil numeric field
// becomes 0. Must run once, after all lag/rolling derivations — filling
// before would corrupt them with fabricated zeros. The classification of an
// unmatched date stays the empty string.
func Fill(rows []*domain.MergedFeatureRow) {
	zero := func(p **float64) {
		if *p == nil {
			v := 0.0
			*p = &v
		}
	}
	zeroInt := func(p **int) {
		if *p == nil {
			v := 0
			*p = &v
		}
	}

	for _, r := range rows {
		zero(&r.AvgTradeSize)
		zero(&r.MedianTradeSize)
		zero(&r.WorstTradePnL)
		zero(&r.AvgLeverage)
		zeroInt(&r.LongCount)
		zeroInt(&r.ShortCount)
		zero(&r.LongShortRatio)
		zero(&r.PnLLag1)
		zero(&r.PnLRoll3)
		zero(&r.WinRateLag1)
		zero(&r.TradeCountRoll3)
	}
}
