// Package pipeline orchestrates the full run: schema normalization →
// cleaning → daily aggregation → sentiment merge and feature derivation →
// label construction. Each stage is a pure function from input tables to a
// new output; raw inputs are never mutated.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"trader-sentiment-lab/internal/cleaning"
	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/features"
	"trader-sentiment-lab/internal/labels"
	"trader-sentiment-lab/internal/metrics"
	"trader-sentiment-lab/internal/schema"
	"trader-sentiment-lab/internal/table"
)

// Runner executes the pipeline over in-memory tables.
type Runner struct {
	cfg Config
	log zerolog.Logger
}

// New creates a Runner. The logger may be zerolog.Nop() for silent runs.
func New(cfg Config, log zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Result is the full pipeline output plus the per-stage row-loss counts.
type Result struct {
	Trades    []domain.TradeRow
	Columns   cleaning.Columns
	Sentiment []domain.SentimentDay

	Metrics  []*domain.DailyAccountMetric
	Merged   []*domain.MergedFeatureRow
	Features *domain.FeatureSet

	TradeReport     cleaning.Report
	SentimentReport cleaning.Report
}

// Run executes all stages over raw trade and sentiment tables. Structural
// failures (schema inference, empty labeled set) abort with a typed error;
// per-row data-quality repairs are counted in the result's reports.
func (r *Runner) Run(ctx context.Context, rawTrades, rawSentiment *table.Table) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tradesTable, err := schema.NormalizeTrades(rawTrades)
	if err != nil {
		return nil, fmt.Errorf("normalize trades: %w", err)
	}
	sentimentTable, err := schema.NormalizeSentiment(rawSentiment)
	if err != nil {
		return nil, fmt.Errorf("normalize sentiment: %w", err)
	}

	trades, err := cleaning.CleanTrades(tradesTable)
	if err != nil {
		return nil, fmt.Errorf("clean trades: %w", err)
	}
	r.logReport("trades", trades.Report)

	sentiment, err := cleaning.CleanSentiment(sentimentTable)
	if err != nil {
		return nil, fmt.Errorf("clean sentiment: %w", err)
	}
	r.logReport("sentiment", sentiment.Report)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	daily := metrics.ComputeDaily(trades.Rows, trades.Columns)
	r.log.Info().Int("groups", len(daily)).Msg("daily metrics aggregated")

	merged := features.MergeWithSentiment(daily, sentiment.Days)
	features.Fill(merged)

	set, err := labels.Build(merged, labels.Config{
		LowerPct: r.cfg.TrimLowerPct,
		UpperPct: r.cfg.TrimUpperPct,
	})
	if err != nil {
		return nil, fmt.Errorf("build feature set: %w", err)
	}
	r.log.Info().
		Int("rows", len(set.Rows)).
		Int("features", len(set.Columns)).
		Msg("labeled feature set built")

	return &Result{
		Trades:          trades.Rows,
		Columns:         trades.Columns,
		Sentiment:       sentiment.Days,
		Metrics:         daily,
		Merged:          merged,
		Features:        set,
		TradeReport:     trades.Report,
		SentimentReport: sentiment.Report,
	}, nil
}

func (r *Runner) logReport(name string, rep cleaning.Report) {
	r.log.Info().
		Str("table", name).
		Int("input_rows", rep.InputRows).
		Int("output_rows", rep.OutputRows).
		Int("empty_dropped", rep.EmptyRowsDropped).
		Int("duplicates_dropped", rep.DuplicatesDropped).
		Int("bad_timestamps", rep.BadTimestampRows).
		Int("missing_account", rep.MissingAccount).
		Int("nulled_numeric", rep.NulledNumeric).
		Msg("cleaned")
}
