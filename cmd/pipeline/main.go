// Package main runs the full in-memory pipeline:
// load CSVs → normalize → clean → aggregate → merge → label →
// segment → cluster → train models → write reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"trader-sentiment-lab/internal/analysis"
	"trader-sentiment-lab/internal/ingestion"
	"trader-sentiment-lab/internal/labels"
	"trader-sentiment-lab/internal/models"
	"trader-sentiment-lab/internal/pipeline"
	"trader-sentiment-lab/internal/reporting"
	"trader-sentiment-lab/internal/segmentation"
)

func main() {
	tradesPath := flag.String("trades", "data/raw/historical_data.csv", "Raw trades CSV path")
	sentimentPath := flag.String("sentiment", "data/raw/fear_greed_index.csv", "Sentiment index CSV path")
	configPath := flag.String("config", "", "Optional YAML run config")
	outputDir := flag.String("output-dir", "", "Report output directory (overrides config)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := newLogger(*verbose)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger, *tradesPath, *sentimentPath); err != nil {
		if errors.Is(err, labels.ErrInsufficientData) {
			fmt.Fprintln(os.Stderr, "Not enough labeled data to train; aborting before model training.")
		}
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg pipeline.Config, logger zerolog.Logger, tradesPath, sentimentPath string) error {
	rawTrades, err := ingestion.LoadCSVFile(tradesPath)
	if err != nil {
		return err
	}
	rawSentiment, err := ingestion.LoadCSVFile(sentimentPath)
	if err != nil {
		return err
	}

	result, err := pipeline.New(cfg, logger).Run(ctx, rawTrades, rawSentiment)
	if err != nil {
		return err
	}

	fmt.Println("=== Pipeline ===")
	fmt.Printf("  Trades:      %d (of %d raw rows)\n", result.TradeReport.OutputRows, result.TradeReport.InputRows)
	fmt.Printf("  Sentiment:   %d days\n", len(result.Sentiment))
	fmt.Printf("  Metrics:     %d (date, account) groups\n", len(result.Metrics))
	fmt.Printf("  Labeled set: %d rows\n", len(result.Features.Rows))

	// Segmentation over daily metrics, clustering over the feature matrix.
	segments := segmentation.AssignSegments(result.Metrics, segmentation.Thresholds{})
	cluster, err := segmentation.Cluster(result.Features.X, cfg.Clusters)
	if err != nil {
		return fmt.Errorf("cluster traders: %w", err)
	}
	logger.Info().Int("clusters", cfg.Clusters).Float64("silhouette", cluster.Silhouette).Msg("clustering done")

	// Classifier on next-day profitability.
	clsSplit, err := models.TrainTestSplit(result.Features.X, models.Binary(result.Features.Target), cfg.TestFraction, cfg.Seed)
	if err != nil {
		return fmt.Errorf("split classifier data: %w", err)
	}
	classifier, err := models.FitLogistic(clsSplit.XTrain, clsSplit.YTrain, models.DefaultLogisticConfig())
	if err != nil {
		return fmt.Errorf("train classifier: %w", err)
	}
	accuracy := classifier.Accuracy(clsSplit.XTest, clsSplit.YTest)

	// Regressor on next-day log pnl.
	regSplit, err := models.TrainTestSplit(result.Features.X, result.Features.LogPnL, cfg.TestFraction, cfg.Seed)
	if err != nil {
		return fmt.Errorf("split regressor data: %w", err)
	}
	regressor, err := models.FitLinear(regSplit.XTrain, regSplit.YTrain, models.DefaultLinearConfig())
	if err != nil {
		return fmt.Errorf("train regressor: %w", err)
	}

	fmt.Println("=== Models ===")
	fmt.Printf("  Classifier accuracy: %.4f\n", accuracy)
	fmt.Printf("  Regressor MSE:       %.4f\n", regressor.MSE(regSplit.XTest, regSplit.YTest))
	fmt.Printf("  Regressor R2:        %.4f\n", regressor.R2(regSplit.XTest, regSplit.YTest))
	fmt.Printf("  Silhouette (k=%d):    %.4f\n", cfg.Clusters, cluster.Silhouette)

	model := &reporting.ModelReport{
		GeneratedAt:        time.Now().UTC(),
		TrainRows:          len(clsSplit.XTrain),
		TestRows:           len(clsSplit.XTest),
		ClassifierAccuracy: accuracy,
		RegressorMSE:       regressor.MSE(regSplit.XTest, regSplit.YTest),
		RegressorR2:        regressor.R2(regSplit.XTest, regSplit.YTest),
		ClusterCount:       cfg.Clusters,
		Silhouette:         cluster.Silhouette,
	}

	reports := []struct {
		name    string
		content string
	}{
		{"daily_metrics.csv", reporting.RenderDailyMetricsCSV(result.Metrics)},
		{"merged_features.csv", reporting.RenderMergedCSV(result.Merged)},
		{"segments.csv", reporting.RenderSegmentsCSV(segments)},
		{"sentiment_summary.csv", reporting.RenderSentimentSummaryCSV(analysis.SummarizeBySentiment(result.Merged))},
		{"run_report.md", reporting.RenderRunMarkdown(result.TradeReport, result.SentimentReport, model)},
	}
	for _, r := range reports {
		path, err := reporting.WriteReport(cfg.OutputDir, r.name, r.content)
		if err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("report written")
	}

	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
