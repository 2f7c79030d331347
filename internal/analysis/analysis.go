// Package analysis provides exploratory summaries over merged feature rows,
// consumed by the reporting layer.
package analysis

import (
	"sort"
	"strings"

	"trader-sentiment-lab/internal/domain"
)

// Coarse sentiment buckets.
const (
	CoarseFear    = "Fear"
	CoarseGreed   = "Greed"
	CoarseOther   = "Other"
	CoarseUnknown = "Unknown"
)

// CoarseSentiment collapses a classification label into one of four
// buckets. Missing labels are Unknown; labels mentioning fear win over
// greed when both appear (matches the historical bucketing).
func CoarseSentiment(classification string) string {
	if classification == "" {
		return CoarseUnknown
	}
	c := strings.ToLower(classification)
	switch {
	case strings.Contains(c, "fear"):
		return CoarseFear
	case strings.Contains(c, "greed"):
		return CoarseGreed
	}
	return CoarseOther
}

// SentimentSummary aggregates performance per coarse sentiment bucket.
type SentimentSummary struct {
	Sentiment      string
	Rows           int
	MeanDailyPnL   float64
	MedianDailyPnL float64
	MeanWinRate    float64
	MeanTradeCount float64
}

// SummarizeBySentiment groups merged rows by coarse sentiment and computes
// the comparison statistics. Buckets are returned in alphabetical order.
func SummarizeBySentiment(rows []*domain.MergedFeatureRow) []SentimentSummary {
	buckets := make(map[string][]*domain.MergedFeatureRow)
	for _, r := range rows {
		key := CoarseSentiment(r.Classification)
		buckets[key] = append(buckets[key], r)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]SentimentSummary, 0, len(keys))
	for _, k := range keys {
		group := buckets[k]
		s := SentimentSummary{Sentiment: k, Rows: len(group)}

		pnls := make([]float64, len(group))
		for i, r := range group {
			pnls[i] = r.DailyPnL
			s.MeanDailyPnL += r.DailyPnL
			s.MeanWinRate += r.WinRate
			s.MeanTradeCount += float64(r.TradeCount)
		}
		n := float64(len(group))
		s.MeanDailyPnL /= n
		s.MeanWinRate /= n
		s.MeanTradeCount /= n

		sort.Float64s(pnls)
		mid := len(pnls) / 2
		if len(pnls)%2 == 1 {
			s.MedianDailyPnL = pnls[mid]
		} else {
			s.MedianDailyPnL = (pnls[mid-1] + pnls[mid]) / 2
		}

		out = append(out, s)
	}
	return out
}

// DailyTotal is the total trade count across all accounts for one date.
type DailyTotal struct {
	Date  string
	Count int
}

// DailyTradeTotals sums trade_count per date over merged rows, sorted by
// date ascending. Dates are rendered as YYYY-MM-DD.
func DailyTradeTotals(rows []*domain.MergedFeatureRow) []DailyTotal {
	byDate := make(map[string]int)
	for _, r := range rows {
		byDate[r.Date.Format("2006-01-02")] += r.TradeCount
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DailyTotal, len(dates))
	for i, d := range dates {
		out[i] = DailyTotal{Date: d, Count: byDate[d]}
	}
	return out
}
