// Package labels builds the supervised-learning feature matrix and
// leakage-free next-day targets from merged feature rows.
package labels

import (
	"errors"
	"math"
	"sort"
	"strings"

	"trader-sentiment-lab/internal/domain"
)

// ErrInsufficientData is returned when trimming and shifting leave an empty
// labeled set. Callers must treat this as a non-trainable condition instead
// of producing a degenerate model.
var ErrInsufficientData = errors.New("insufficient data: labeled feature set is empty")

// Config controls outlier trimming.
type Config struct {
	// LowerPct and UpperPct are the daily_pnl trim percentiles.
	LowerPct float64
	UpperPct float64
}

// DefaultConfig trims daily_pnl to the [1st, 99th] percentile band.
func DefaultConfig() Config {
	return Config{LowerPct: 0.01, UpperPct: 0.99}
}

// Build derives the labeled feature set. Processing order is load-bearing:
//
//  1. sort by (account, date) ascending
//  2. compute trim bounds on daily_pnl over the full population (single
//     pass, never recomputed after trimming)
//  3. drop rows outside [lower, upper]
//  4. derive sentiment_code
//  5. forward-shift daily_pnl within each account's sorted subsequence to
//     get next_daily_pnl (nil on an account's last row, never read across
//     an account boundary)
//  6. derive target_profit_next and next_daily_pnl_log
//  7. drop rows with an undefined next_daily_pnl_log
//
// The feature matrix uses domain.FeatureColumns order with nil features
// read as 0. Returns ErrInsufficientData when nothing survives.
func Build(merged []*domain.MergedFeatureRow, cfg Config) (*domain.FeatureSet, error) {
	rows := make([]*domain.MergedFeatureRow, len(merged))
	copy(rows, merged)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Account != rows[j].Account {
			return rows[i].Account < rows[j].Account
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	lower, upper := trimBounds(rows, cfg)

	trimmed := make([]*domain.MergedFeatureRow, 0, len(rows))
	for _, r := range rows {
		if r.DailyPnL >= lower && r.DailyPnL <= upper {
			trimmed = append(trimmed, r)
		}
	}

	labeled := make([]*domain.LabeledFeatureRow, len(trimmed))
	for i, r := range trimmed {
		labeled[i] = &domain.LabeledFeatureRow{
			MergedFeatureRow: *r,
			SentimentCode:    SentimentCode(r.Classification),
		}
	}

	shiftNextPnL(labeled)

	set := &domain.FeatureSet{Columns: domain.FeatureColumns}
	for _, r := range labeled {
		if r.NextDailyPnL == nil {
			// Last recorded date for this account: no label.
			continue
		}
		if *r.NextDailyPnL > 0 {
			r.TargetProfitNext = 1
		}
		logPnL := signedLog1p(*r.NextDailyPnL)
		r.NextDailyPnLLog = &logPnL

		set.Rows = append(set.Rows, r)
		set.X = append(set.X, featureVector(r))
		set.Target = append(set.Target, r.TargetProfitNext)
		set.LogPnL = append(set.LogPnL, logPnL)
	}

	if len(set.X) == 0 {
		return nil, ErrInsufficientData
	}
	return set, nil
}

// SentimentCode maps a classification label onto {-1, 0, +1}: labels
// containing "greed" are +1, labels containing "fear" are -1, anything else
// (including a missing label) is 0.
func SentimentCode(classification string) int {
	c := strings.ToLower(classification)
	switch {
	case strings.Contains(c, "greed"):
		return domain.SentimentGreed
	case strings.Contains(c, "fear"):
		return domain.SentimentFear
	}
	return domain.SentimentNeutral
}

// trimBounds computes the [lower, upper] daily_pnl percentile band over the
// full untrimmed population, linearly interpolated.
func trimBounds(rows []*domain.MergedFeatureRow, cfg Config) (float64, float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	pnls := make([]float64, len(rows))
	for i, r := range rows {
		pnls[i] = r.DailyPnL
	}
	sort.Float64s(pnls)
	return percentile(pnls, cfg.LowerPct), percentile(pnls, cfg.UpperPct)
}

// percentile returns the p-quantile of sorted values via linear
// interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// shiftNextPnL assigns each row the next same-account row's daily_pnl.
// Rows are account-contiguous and date-sorted at this point, so the
// successor is valid exactly when it belongs to the same account.
func shiftNextPnL(rows []*domain.LabeledFeatureRow) {
	for i, r := range rows {
		if i+1 >= len(rows) || rows[i+1].Account != r.Account {
			continue
		}
		next := rows[i+1].DailyPnL
		r.NextDailyPnL = &next
	}
}

// signedLog1p is the sign-preserving log1p transform used as the optional
// regression target.
func signedLog1p(v float64) float64 {
	if v < 0 {
		return -math.Log1p(-v)
	}
	return math.Log1p(v)
}

// featureVector extracts the fixed feature columns with nil read as 0.
func featureVector(r *domain.LabeledFeatureRow) []float64 {
	return []float64{
		float64(r.SentimentCode),
		r.WinRate,
		deref(r.AvgTradeSize),
		float64(r.TradeCount),
		deref(r.PnLLag1),
		deref(r.PnLRoll3),
		deref(r.WinRateLag1),
		deref(r.TradeCountRoll3),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
