// Package main ingests raw CSV exports: normalize + clean, then persist
// cleaned trades, sentiment days and daily metrics to Postgres, and merged
// feature rows to ClickHouse when a DSN is configured.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"trader-sentiment-lab/internal/cleaning"
	"trader-sentiment-lab/internal/features"
	"trader-sentiment-lab/internal/ingestion"
	"trader-sentiment-lab/internal/metrics"
	"trader-sentiment-lab/internal/schema"
	chstore "trader-sentiment-lab/internal/storage/clickhouse"
	"trader-sentiment-lab/internal/storage/migrations"
	"trader-sentiment-lab/internal/storage/postgres"
)

func main() {
	tradesPath := flag.String("trades", "data/raw/historical_data.csv", "Raw trades CSV path")
	sentimentPath := flag.String("sentiment", "data/raw/fear_greed_index.csv", "Sentiment index CSV path")
	envFile := flag.String("env-file", ".env", "Optional .env file with DSNs")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Missing .env is fine; DSNs may come from the environment directly.
	_ = godotenv.Load(*envFile)

	pgDSN := os.Getenv("TSLAB_POSTGRES_DSN")
	if pgDSN == "" {
		fmt.Fprintln(os.Stderr, "TSLAB_POSTGRES_DSN is required")
		os.Exit(1)
	}
	chDSN := os.Getenv("TSLAB_CLICKHOUSE_DSN")

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := run(context.Background(), logger, *tradesPath, *sentimentPath, pgDSN, chDSN); err != nil {
		fmt.Fprintf(os.Stderr, "Ingest error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger zerolog.Logger, tradesPath, sentimentPath, pgDSN, chDSN string) error {
	rawTrades, err := ingestion.LoadCSVFile(tradesPath)
	if err != nil {
		return err
	}
	rawSentiment, err := ingestion.LoadCSVFile(sentimentPath)
	if err != nil {
		return err
	}

	tradesTable, err := schema.NormalizeTrades(rawTrades)
	if err != nil {
		return err
	}
	sentimentTable, err := schema.NormalizeSentiment(rawSentiment)
	if err != nil {
		return err
	}

	trades, err := cleaning.CleanTrades(tradesTable)
	if err != nil {
		return err
	}
	sentiment, err := cleaning.CleanSentiment(sentimentTable)
	if err != nil {
		return err
	}
	logger.Info().
		Int("trades", trades.Report.OutputRows).
		Int("sentiment_days", sentiment.Report.OutputRows).
		Msg("cleaned")

	pool, err := postgres.NewPool(ctx, pgDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	if err := postgres.NewTradeStore(pool).InsertBulk(ctx, trades.Rows); err != nil {
		return fmt.Errorf("persist trades: %w", err)
	}
	if err := postgres.NewSentimentStore(pool).InsertBulk(ctx, sentiment.Days); err != nil {
		return fmt.Errorf("persist sentiment: %w", err)
	}

	daily := metrics.ComputeDaily(trades.Rows, trades.Columns)
	if err := postgres.NewDailyMetricStore(pool).InsertBulk(ctx, daily); err != nil {
		return fmt.Errorf("persist daily metrics: %w", err)
	}
	logger.Info().Int("groups", len(daily)).Msg("daily metrics persisted")

	if chDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, chDSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		merged := features.MergeWithSentiment(daily, sentiment.Days)
		if err := chstore.NewFeatureRowStore(conn).InsertBulk(ctx, merged); err != nil {
			return fmt.Errorf("persist feature rows: %w", err)
		}
		logger.Info().Int("rows", len(merged)).Msg("feature rows persisted")
	}

	fmt.Printf("Ingest complete: %d trades, %d sentiment days, %d metric groups\n",
		trades.Report.OutputRows, sentiment.Report.OutputRows, len(daily))
	return nil
}
