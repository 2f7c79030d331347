// Package main regenerates reports from previously ingested data: loads
// daily metrics and sentiment from Postgres, rebuilds the merged feature
// rows and labeled set, and writes the CSV reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"trader-sentiment-lab/internal/analysis"
	"trader-sentiment-lab/internal/features"
	"trader-sentiment-lab/internal/labels"
	"trader-sentiment-lab/internal/pipeline"
	"trader-sentiment-lab/internal/reporting"
	"trader-sentiment-lab/internal/segmentation"
	"trader-sentiment-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML run config")
	outputDir := flag.String("output-dir", "", "Report output directory (overrides config)")
	envFile := flag.String("env-file", ".env", "Optional .env file with DSNs")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	pgDSN := os.Getenv("TSLAB_POSTGRES_DSN")
	if pgDSN == "" {
		fmt.Fprintln(os.Stderr, "TSLAB_POSTGRES_DSN is required")
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = pipeline.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := run(context.Background(), cfg, pgDSN); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg pipeline.Config, pgDSN string) error {
	pool, err := postgres.NewPool(ctx, pgDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	daily, err := postgres.NewDailyMetricStore(pool).GetAll(ctx)
	if err != nil {
		return err
	}
	sentiment, err := postgres.NewSentimentStore(pool).GetAll(ctx)
	if err != nil {
		return err
	}
	if len(daily) == 0 {
		return errors.New("no daily metrics found; run ingest first")
	}

	merged := features.MergeWithSentiment(daily, sentiment)
	features.Fill(merged)

	segments := segmentation.AssignSegments(daily, segmentation.Thresholds{})

	set, err := labels.Build(merged, labels.Config{LowerPct: cfg.TrimLowerPct, UpperPct: cfg.TrimUpperPct})
	switch {
	case errors.Is(err, labels.ErrInsufficientData):
		fmt.Fprintln(os.Stderr, "Labeled set is empty; skipping model inputs report.")
	case err != nil:
		return err
	default:
		fmt.Printf("Labeled set: %d rows, %d features\n", len(set.Rows), len(set.Columns))
	}

	reports := []struct {
		name    string
		content string
	}{
		{"daily_metrics.csv", reporting.RenderDailyMetricsCSV(daily)},
		{"merged_features.csv", reporting.RenderMergedCSV(merged)},
		{"segments.csv", reporting.RenderSegmentsCSV(segments)},
		{"sentiment_summary.csv", reporting.RenderSentimentSummaryCSV(analysis.SummarizeBySentiment(merged))},
	}
	for _, r := range reports {
		path, err := reporting.WriteReport(cfg.OutputDir, r.name, r.content)
		if err != nil {
			return err
		}
		fmt.Printf("Saved report -> %s\n", path)
	}
	return nil
}
