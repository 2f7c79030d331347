package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"trader-sentiment-lab/internal/labels"
	"trader-sentiment-lab/internal/schema"
	"trader-sentiment-lab/internal/table"
)

func rawTrades() *table.Table {
	return table.New(
		[]string{"Account", "Timestamp IST", "Closed PnL", "Size USD", "Side"},
		[][]string{
			{"alice", "2024-03-01 10:00:00", "10", "100", "BUY"},
			{"alice", "2024-03-01 15:00:00", "-4", "80", "SELL"},
			{"alice", "2024-03-02 09:00:00", "6", "90", "BUY"},
			{"alice", "2024-03-03 09:00:00", "2", "60", "BUY"},
			{"bob", "2024-03-01 11:00:00", "1", "40", "SELL"},
			{"bob", "2024-03-02 12:00:00", "-2", "30", "SELL"},
		},
	)
}

func rawSentiment() *table.Table {
	return table.New(
		[]string{"Date", "Classification"},
		[][]string{
			{"2024-03-01", "Greed"},
			{"2024-03-02", "Fear"},
			{"2024-03-03", "Neutral"},
		},
	)
}

func testConfig() Config {
	cfg := DefaultConfig()
	// Tiny fixtures: disable outlier trimming.
	cfg.TrimLowerPct = 0
	cfg.TrimUpperPct = 1
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	runner := New(testConfig(), zerolog.Nop())

	res, err := runner.Run(context.Background(), rawTrades(), rawSentiment())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.TradeReport.OutputRows != 6 {
		t.Errorf("trade OutputRows = %d, want 6", res.TradeReport.OutputRows)
	}
	if !res.Columns.HasSide || !res.Columns.HasTradeSize {
		t.Errorf("Columns = %+v", res.Columns)
	}
	if len(res.Sentiment) != 3 {
		t.Errorf("got %d sentiment days, want 3", len(res.Sentiment))
	}

	// Groups: alice x3 days, bob x2 days.
	if len(res.Metrics) != 5 {
		t.Fatalf("got %d metric groups, want 5", len(res.Metrics))
	}
	if len(res.Merged) != 5 {
		t.Fatalf("got %d merged rows, want 5", len(res.Merged))
	}

	// Every account's last day is unlabeled: 5 - 2 = 3 labeled rows.
	if len(res.Features.Rows) != 3 {
		t.Fatalf("got %d labeled rows, want 3", len(res.Features.Rows))
	}

	// alice day 1: pnl 10 - 4 = 6, next day's pnl 6 > 0.
	first := res.Features.Rows[0]
	if first.Account != "alice" || first.DailyPnL != 6 {
		t.Errorf("first labeled row = %s pnl %f", first.Account, first.DailyPnL)
	}
	if first.TargetProfitNext != 1 {
		t.Errorf("TargetProfitNext = %d, want 1", first.TargetProfitNext)
	}
	if first.SentimentCode != 1 {
		t.Errorf("SentimentCode = %d, want 1 (greed)", first.SentimentCode)
	}

	// Fill ran: no nil feature fields remain in merged rows.
	for _, r := range res.Merged {
		if r.PnLLag1 == nil || r.PnLRoll3 == nil {
			t.Fatalf("merged row %s/%v has nil features after run", r.Account, r.Date)
		}
	}
}

func TestRun_SchemaFailure(t *testing.T) {
	runner := New(testConfig(), zerolog.Nop())

	bad := table.New([]string{"foo", "bar"}, [][]string{{"1", "2"}})
	_, err := runner.Run(context.Background(), bad, rawSentiment())

	var schemaErr *schema.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected wrapped *SchemaError, got %v", err)
	}
}

func TestRun_InsufficientData(t *testing.T) {
	runner := New(testConfig(), zerolog.Nop())

	// One trade means one metric row and nothing to label.
	tiny := table.New(
		[]string{"account", "timestamp", "pnl"},
		[][]string{{"alice", "2024-03-01 10:00:00", "5"}},
	)
	_, err := runner.Run(context.Background(), tiny, rawSentiment())
	if !errors.Is(err, labels.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	runner := New(testConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx, rawTrades(), rawSentiment()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := "trim_lower_pct: 0.05\ntrim_upper_pct: 0.95\nclusters: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TrimLowerPct != 0.05 || cfg.TrimUpperPct != 0.95 {
		t.Errorf("trim = [%v, %v]", cfg.TrimLowerPct, cfg.TrimUpperPct)
	}
	if cfg.Clusters != 4 {
		t.Errorf("Clusters = %d, want 4", cfg.Clusters)
	}
	// Unset keys keep their defaults.
	if cfg.TestFraction != 0.3 || cfg.OutputDir != "outputs" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfig_InvalidTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("trim_lower_pct: 0.9\ntrim_upper_pct: 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for inverted trim percentiles")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
