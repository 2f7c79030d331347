// Package cleaning turns normalized-schema tables into typed, cleaned rows.
// Structural problems (a missing required column) abort with an error;
// per-row data-quality problems are repaired or dropped and counted in the
// Report, never aborting the run.
package cleaning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/schema"
	"trader-sentiment-lab/internal/table"
)

// legacyTimestampColumn is an exchange-export alias that, when present next
// to the canonical timestamp column, carries the authoritative values.
const legacyTimestampColumn = "timestamp ist"

// timestampLayouts are tried in order when parsing timestamp cells.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04",
	"02-01-2006",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Report counts per-row data-quality repairs for observability. Dropped and
// nulled counts never abort a run.
type Report struct {
	InputRows         int
	EmptyRowsDropped  int
	DuplicatesDropped int
	BadTimestampRows  int // dropped: timestamp cell failed coercion
	MissingAccount    int // dropped: empty account cell
	NulledNumeric     int // cells nulled: non-numeric pnl/trade_size/leverage/price
	OutputRows        int
}

// Columns records which optional source columns were present, so the
// aggregator can omit the metrics that depend on them.
type Columns struct {
	HasTradeSize bool
	HasSide      bool
	HasLeverage  bool
	HasPrice     bool
}

// TradeResult is the output of CleanTrades: typed rows, the optional-column
// presence flags, and the data-quality report.
type TradeResult struct {
	Rows    []domain.TradeRow
	Columns Columns
	Report  Report
}

// SentimentResult is the output of CleanSentiment.
type SentimentResult struct {
	Days   []domain.SentimentDay
	Report Report
}

// CleanTrades cleans a normalized trade table. Step order matters:
// column-name normalization, legacy timestamp preference, empty-row and
// duplicate drops all happen on raw cells before any value coercion.
func CleanTrades(t *table.Table) (*TradeResult, error) {
	t = t.NormalizeColumns()

	// Prefer the legacy alias's values when both it and the canonical
	// timestamp column exist.
	if t.HasColumn(legacyTimestampColumn) && t.HasColumn(schema.ColTimestamp) {
		values := make([]string, t.Len())
		for i := range values {
			values[i], _ = t.Cell(i, legacyTimestampColumn)
		}
		t = t.WithColumnValues(schema.ColTimestamp, values).DropColumn(legacyTimestampColumn)
	}

	if !t.HasColumn(schema.ColTimestamp) {
		return nil, fmt.Errorf("clean trades: %w", &schema.SchemaError{Field: schema.ColTimestamp, Found: t.Columns()})
	}
	if !t.HasColumn(schema.ColAccount) {
		return nil, fmt.Errorf("clean trades: %w", &schema.SchemaError{Field: schema.ColAccount, Found: t.Columns()})
	}

	res := &TradeResult{
		Columns: Columns{
			HasTradeSize: t.HasColumn(schema.ColTradeSize),
			HasSide:      t.HasColumn(schema.ColSide),
			HasLeverage:  t.HasColumn(schema.ColLeverage),
			HasPrice:     t.HasColumn(schema.ColPrice),
		},
	}
	res.Report.InputRows = t.Len()

	t = dropEmptyAndDuplicates(t, &res.Report)

	for i := 0; i < t.Len(); i++ {
		ts, ok := parseTimestamp(cell(t, i, schema.ColTimestamp))
		if !ok {
			res.Report.BadTimestampRows++
			continue
		}

		account := strings.TrimSpace(cell(t, i, schema.ColAccount))
		if account == "" {
			res.Report.MissingAccount++
			continue
		}

		row := domain.TradeRow{
			Account:   account,
			Timestamp: ts,
			Date:      domain.DayFloor(ts),
			PnL:       coerceNumeric(cell(t, i, schema.ColPnL), &res.Report),
		}
		if res.Columns.HasTradeSize {
			row.TradeSize = coerceNumeric(cell(t, i, schema.ColTradeSize), &res.Report)
		}
		if res.Columns.HasLeverage {
			row.Leverage = coerceNumeric(cell(t, i, schema.ColLeverage), &res.Report)
		}
		if res.Columns.HasPrice {
			row.Price = coerceNumeric(cell(t, i, schema.ColPrice), &res.Report)
		}
		if res.Columns.HasSide {
			row.Side = normalizeSide(cell(t, i, schema.ColSide))
		}

		res.Rows = append(res.Rows, row)
	}

	res.Report.OutputRows = len(res.Rows)
	return res, nil
}

// CleanSentiment cleans a normalized sentiment table: unparseable dates are
// dropped, labels trimmed, duplicate dates deduplicated (first occurrence
// wins), and days returned sorted ascending. A table without a
// classification column yields days with empty labels.
func CleanSentiment(t *table.Table) (*SentimentResult, error) {
	t = t.NormalizeColumns()

	if !t.HasColumn(schema.ColDate) {
		return nil, fmt.Errorf("clean sentiment: %w", &schema.SchemaError{Field: schema.ColDate, Found: t.Columns()})
	}

	res := &SentimentResult{}
	res.Report.InputRows = t.Len()

	t = dropEmptyAndDuplicates(t, &res.Report)

	seen := make(map[time.Time]bool)
	for i := 0; i < t.Len(); i++ {
		ts, ok := parseTimestamp(cell(t, i, schema.ColDate))
		if !ok {
			res.Report.BadTimestampRows++
			continue
		}
		day := domain.DayFloor(ts)
		if seen[day] {
			res.Report.DuplicatesDropped++
			continue
		}
		seen[day] = true

		res.Days = append(res.Days, domain.SentimentDay{
			Date:           day,
			Classification: strings.TrimSpace(cell(t, i, schema.ColClassification)),
		})
	}

	sortDays(res.Days)
	res.Report.OutputRows = len(res.Days)
	return res, nil
}

func cell(t *table.Table, row int, column string) string {
	v, _ := t.Cell(row, column)
	return v
}

// dropEmptyAndDuplicates removes fully-empty rows, then exact-duplicate
// rows, counting both in the report.
func dropEmptyAndDuplicates(t *table.Table, report *Report) *table.Table {
	t = t.Filter(func(row int) bool {
		for _, c := range t.Row(row) {
			if strings.TrimSpace(c) != "" {
				return true
			}
		}
		report.EmptyRowsDropped++
		return false
	})

	seen := make(map[string]bool, t.Len())
	return t.Filter(func(row int) bool {
		key := strings.Join(t.Row(row), "\x1f")
		if seen[key] {
			report.DuplicatesDropped++
			return false
		}
		seen[key] = true
		return true
	})
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	// Exchange exports sometimes carry epoch milliseconds.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 1e11 {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

// coerceNumeric parses a numeric cell; failures null the value (counted),
// never drop the row.
func coerceNumeric(s string, report *Report) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	// Tolerate thousands separators seen in exchange CSV exports.
	v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		report.NulledNumeric++
		return nil
	}
	return &v
}

// normalizeSide lower-cases and strips the side value and maps the
// buy/sell vocabulary onto long/short. Anything else passes through.
func normalizeSide(s string) string {
	side := strings.ToLower(strings.TrimSpace(s))
	switch side {
	case "buy":
		return domain.SideLong
	case "sell":
		return domain.SideShort
	}
	return side
}

func sortDays(days []domain.SentimentDay) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
}
