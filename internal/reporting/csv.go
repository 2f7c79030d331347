// Package reporting renders pipeline outputs as CSV and markdown reports.
package reporting

import (
	"fmt"
	"strings"

	"trader-sentiment-lab/internal/analysis"
	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/segmentation"
)

// RenderDailyMetricsCSV renders daily account metrics as CSV.
func RenderDailyMetricsCSV(metrics []*domain.DailyAccountMetric) string {
	var sb strings.Builder

	sb.WriteString("date,account,daily_pnl,trade_count,avg_trade_size,median_trade_size,")
	sb.WriteString("worst_trade_pnl,avg_leverage,win_count,loss_count,win_rate,")
	sb.WriteString("long_count,short_count,long_short_ratio\n")

	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%d,%s,%s,%s,%s,%d,%d,%.6f,%s,%s,%s\n",
			m.Date.Format("2006-01-02"),
			m.Account,
			m.DailyPnL,
			m.TradeCount,
			optFloat(m.AvgTradeSize),
			optFloat(m.MedianTradeSize),
			optFloat(m.WorstTradePnL),
			optFloat(m.AvgLeverage),
			m.WinCount,
			m.LossCount,
			m.WinRate,
			optInt(m.LongCount),
			optInt(m.ShortCount),
			optFloat(m.LongShortRatio),
		))
	}

	return sb.String()
}

// RenderMergedCSV renders merged feature rows as CSV.
func RenderMergedCSV(rows []*domain.MergedFeatureRow) string {
	var sb strings.Builder

	sb.WriteString("date,account,daily_pnl,trade_count,win_rate,classification,")
	sb.WriteString("pnl_lag1,pnl_roll3,winrate_lag1,tradecount_roll3\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%d,%.6f,%s,%s,%s,%s,%s\n",
			r.Date.Format("2006-01-02"),
			r.Account,
			r.DailyPnL,
			r.TradeCount,
			r.WinRate,
			csvEscape(r.Classification),
			optFloat(r.PnLLag1),
			optFloat(r.PnLRoll3),
			optFloat(r.WinRateLag1),
			optFloat(r.TradeCountRoll3),
		))
	}

	return sb.String()
}

// RenderSegmentsCSV renders rule-based segment assignments as CSV.
func RenderSegmentsCSV(segments []segmentation.SegmentedMetric) string {
	var sb strings.Builder

	sb.WriteString("date,account,daily_pnl,trade_count,segment\n")
	for _, s := range segments {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%d,%s\n",
			s.Date.Format("2006-01-02"),
			s.Account,
			s.DailyPnL,
			s.TradeCount,
			csvEscape(s.Segment),
		))
	}

	return sb.String()
}

// RenderSentimentSummaryCSV renders the coarse sentiment comparison as CSV.
func RenderSentimentSummaryCSV(summaries []analysis.SentimentSummary) string {
	var sb strings.Builder

	sb.WriteString("sentiment,rows,mean_daily_pnl,median_daily_pnl,mean_win_rate,mean_trade_count\n")
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f\n",
			s.Sentiment, s.Rows, s.MeanDailyPnL, s.MedianDailyPnL, s.MeanWinRate, s.MeanTradeCount))
	}

	return sb.String()
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *p)
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

// csvEscape quotes a value containing commas or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
