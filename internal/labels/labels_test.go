package labels

import (
	"errors"
	"math"
	"testing"
	"time"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/features"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func merged(account string, date time.Time, pnl float64, classification string) *domain.MergedFeatureRow {
	return &domain.MergedFeatureRow{
		DailyAccountMetric: domain.DailyAccountMetric{
			Date:     date,
			Account:  account,
			DailyPnL: pnl,
		},
		Classification: classification,
	}
}

// Three days for one account: lag features come from the merge stage, the
// target from the next day's pnl, and the last day has no label.
func TestBuild_EndToEnd(t *testing.T) {
	metrics := []*domain.DailyAccountMetric{
		{Date: day(1), Account: "A", DailyPnL: 10, TradeCount: 1, WinRate: 1},
		{Date: day(2), Account: "A", DailyPnL: -5, TradeCount: 1, WinRate: 0},
		{Date: day(3), Account: "A", DailyPnL: 20, TradeCount: 1, WinRate: 1},
	}
	sentiment := []domain.SentimentDay{
		{Date: day(1), Classification: "Greed"},
		{Date: day(2), Classification: "Fear"},
		{Date: day(3), Classification: "Neutral"},
	}

	rows := features.MergeWithSentiment(metrics, sentiment)
	features.Fill(rows)

	// Wide trim band so nothing is dropped by the outlier step.
	set, err := Build(rows, Config{LowerPct: 0, UpperPct: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Day 3 has no next day, so only two labeled rows survive.
	if len(set.Rows) != 2 {
		t.Fatalf("got %d labeled rows, want 2", len(set.Rows))
	}

	wantLags := []float64{0, 10}
	wantTargets := []int{0, 1}
	for i, r := range set.Rows {
		if *r.PnLLag1 != wantLags[i] {
			t.Errorf("row %d pnl_lag1 = %f, want %f", i, *r.PnLLag1, wantLags[i])
		}
		if set.Target[i] != wantTargets[i] {
			t.Errorf("row %d target = %d, want %d", i, set.Target[i], wantTargets[i])
		}
	}

	// Day 1's target comes from day 2's pnl of -5.
	if *set.Rows[0].NextDailyPnL != -5 {
		t.Errorf("NextDailyPnL = %f, want -5", *set.Rows[0].NextDailyPnL)
	}
	wantLog := -math.Log1p(5)
	if math.Abs(*set.Rows[0].NextDailyPnLLog-wantLog) > 1e-12 {
		t.Errorf("NextDailyPnLLog = %f, want %f", *set.Rows[0].NextDailyPnLLog, wantLog)
	}

	if set.Rows[0].SentimentCode != domain.SentimentGreed {
		t.Errorf("SentimentCode = %d, want %d", set.Rows[0].SentimentCode, domain.SentimentGreed)
	}
	if set.Rows[1].SentimentCode != domain.SentimentFear {
		t.Errorf("SentimentCode = %d, want %d", set.Rows[1].SentimentCode, domain.SentimentFear)
	}
}

func TestBuild_TrimDropsOutliers(t *testing.T) {
	rows := make([]*domain.MergedFeatureRow, 0, 102)
	for i := 0; i < 100; i++ {
		rows = append(rows, merged("A", day(1).AddDate(0, 0, i), float64(i%10), ""))
	}
	// Extreme outliers on both tails.
	rows = append(rows, merged("A", day(1).AddDate(0, 0, 100), 1e9, ""))
	rows = append(rows, merged("A", day(1).AddDate(0, 0, 101), -1e9, ""))

	set, err := Build(rows, DefaultConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, r := range set.Rows {
		if r.DailyPnL >= 1e9 || r.DailyPnL <= -1e9 {
			t.Fatalf("outlier pnl %f survived trimming", r.DailyPnL)
		}
		if r.NextDailyPnL != nil && (*r.NextDailyPnL >= 1e9 || *r.NextDailyPnL <= -1e9) {
			t.Fatalf("outlier pnl %f leaked into a label", *r.NextDailyPnL)
		}
	}
}

func TestBuild_NoCrossAccountShift(t *testing.T) {
	rows := []*domain.MergedFeatureRow{
		merged("A", day(1), 1, ""),
		merged("A", day(2), 2, ""),
		merged("B", day(1), 100, ""),
		merged("B", day(2), 200, ""),
	}

	set, err := Build(rows, Config{LowerPct: 0, UpperPct: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Each account's last day is unlabeled, so one labeled row per account.
	if len(set.Rows) != 2 {
		t.Fatalf("got %d labeled rows, want 2", len(set.Rows))
	}
	for _, r := range set.Rows {
		switch r.Account {
		case "A":
			if *r.NextDailyPnL != 2 {
				t.Errorf("A NextDailyPnL = %f, want 2", *r.NextDailyPnL)
			}
		case "B":
			if *r.NextDailyPnL != 200 {
				t.Errorf("B NextDailyPnL = %f, want 200", *r.NextDailyPnL)
			}
		}
	}
}

func TestBuild_FeatureMatrixShape(t *testing.T) {
	rows := []*domain.MergedFeatureRow{
		merged("A", day(1), 1, "Greed"),
		merged("A", day(2), 2, ""),
	}

	set, err := Build(rows, Config{LowerPct: 0, UpperPct: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(set.X) != len(set.Target) || len(set.X) != len(set.LogPnL) {
		t.Fatalf("matrix lengths differ: %d/%d/%d", len(set.X), len(set.Target), len(set.LogPnL))
	}
	for _, x := range set.X {
		if len(x) != len(domain.FeatureColumns) {
			t.Fatalf("feature vector length = %d, want %d", len(x), len(domain.FeatureColumns))
		}
	}
	// sentiment_code is the first feature column.
	if set.X[0][0] != 1 {
		t.Errorf("X[0][0] = %f, want 1 (greed)", set.X[0][0])
	}
}

func TestBuild_InsufficientData(t *testing.T) {
	_, err := Build(nil, DefaultConfig())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	// A single row has no next day, so nothing is labelable.
	_, err = Build([]*domain.MergedFeatureRow{merged("A", day(1), 1, "")}, DefaultConfig())
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSentimentCode(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"Greed", domain.SentimentGreed},
		{"Extreme Greed", domain.SentimentGreed},
		{"Fear", domain.SentimentFear},
		{"extreme fear", domain.SentimentFear},
		{"Neutral", domain.SentimentNeutral},
		{"", domain.SentimentNeutral},
	}
	for _, c := range cases {
		if got := SentimentCode(c.in); got != c.want {
			t.Errorf("SentimentCode(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSignedLog1p(t *testing.T) {
	if got := signedLog1p(0); got != 0 {
		t.Errorf("signedLog1p(0) = %f", got)
	}
	if got := signedLog1p(-3); math.Abs(got+math.Log1p(3)) > 1e-12 {
		t.Errorf("signedLog1p(-3) = %f", got)
	}
	// Odd symmetry.
	if signedLog1p(5) != -signedLog1p(-5) {
		t.Error("signedLog1p is not odd-symmetric")
	}
}
