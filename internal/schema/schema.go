// Package schema infers canonical column names from heterogeneous CSV
// headers. Each canonical field has an ordered list of matching rules, each
// a pure predicate over a lower-cased, trimmed column name; rules are
// evaluated in fixed priority order and the first matching source column
// wins. The input table is never mutated.
package schema

import (
	"fmt"
	"strings"

	"trader-sentiment-lab/internal/table"
)

// Canonical column names produced by normalization.
const (
	ColTimestamp      = "timestamp"
	ColAccount        = "account"
	ColPnL            = "pnl"
	ColTradeSize      = "trade_size"
	ColSide           = "side"
	ColLeverage       = "leverage"
	ColPrice          = "price"
	ColDate           = "date"
	ColClassification = "classification"
)

// SchemaError reports a required column that could not be inferred. It
// carries the columns actually found to aid diagnosis.
type SchemaError struct {
	Field string
	Found []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not found after normalization; columns found: [%s]",
		e.Field, strings.Join(e.Found, ", "))
}

// matcher is one inference rule: a predicate over a normalized column name.
type matcher func(name string) bool

func exact(names ...string) matcher {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[name]
		return ok
	}
}

func contains(sub string) matcher {
	return func(name string) bool {
		return strings.Contains(name, sub)
	}
}

func anyOf(ms ...matcher) matcher {
	return func(name string) bool {
		for _, m := range ms {
			if m(name) {
				return true
			}
		}
		return false
	}
}

func allOf(ms ...matcher) matcher {
	return func(name string) bool {
		for _, m := range ms {
			if !m(name) {
				return false
			}
		}
		return true
	}
}

// rule binds a canonical field to its ordered matchers.
type rule struct {
	canonical string
	required  bool
	matchers  []matcher
}

// tradeRules are evaluated in order; earlier fields claim columns first so a
// column matched as the timestamp is not also considered for leverage.
var tradeRules = []rule{
	{
		canonical: ColTimestamp,
		required:  true,
		matchers: []matcher{
			exact("time", "timestamp", "datetime", "date_time", "created_at"),
			contains("time"),
		},
	},
	{
		canonical: ColAccount,
		matchers: []matcher{
			anyOf(contains("account"), contains("wallet"), contains("client")),
		},
	},
	{
		canonical: ColPnL,
		required:  true,
		matchers: []matcher{
			allOf(contains("closed"), contains("pnl")),
			exact("closedpnl", "pnl"),
		},
	},
	{
		canonical: ColTradeSize,
		matchers: []matcher{
			exact("size", "size usd", "size_usd", "trade_size", "qty", "quantity"),
		},
	},
	{
		canonical: ColSide,
		matchers: []matcher{
			exact("side", "direction", "position_side"),
		},
	},
	{
		canonical: ColLeverage,
		matchers: []matcher{
			contains("lever"),
		},
	},
	{
		canonical: ColPrice,
		matchers: []matcher{
			contains("price"),
		},
	},
}

var sentimentRules = []rule{
	{
		canonical: ColDate,
		required:  true,
		matchers: []matcher{
			contains("date"),
		},
	},
	{
		canonical: ColClassification,
		matchers: []matcher{
			anyOf(contains("class"), contains("fear"), contains("greed")),
		},
	},
}

// NormalizeTrades renames trade-table columns to the canonical schema.
// Returns a *SchemaError when the timestamp or pnl column cannot be
// inferred. Account is optional here; its absence fails later during
// cleaning, which drops every row with a missing account.
func NormalizeTrades(t *table.Table) (*table.Table, error) {
	return normalize(t, tradeRules)
}

// NormalizeSentiment renames sentiment-table columns to the canonical
// schema. A date column is required; classification is optional and, when
// absent, stays entirely missing for all rows.
func NormalizeSentiment(t *table.Table) (*table.Table, error) {
	return normalize(t, sentimentRules)
}

func normalize(t *table.Table, rules []rule) (*table.Table, error) {
	normalized := t.NormalizeColumns()
	cols := normalized.Columns()

	claimed := make(map[string]bool)
	mapping := make(map[string]string)

	for _, r := range rules {
		src, ok := firstMatch(cols, claimed, r.matchers)
		if !ok {
			if r.required {
				return nil, &SchemaError{Field: r.canonical, Found: cols}
			}
			continue
		}
		claimed[src] = true
		if src != r.canonical {
			mapping[src] = r.canonical
		}
	}

	return normalized.Rename(mapping), nil
}

func firstMatch(cols []string, claimed map[string]bool, matchers []matcher) (string, bool) {
	for _, m := range matchers {
		for _, c := range cols {
			if claimed[c] {
				continue
			}
			if m(c) {
				return c, true
			}
		}
	}
	return "", false
}
