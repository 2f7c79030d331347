package storage

import (
	"context"
	"time"

	"trader-sentiment-lab/internal/domain"
)

// TradeStore persists cleaned trade rows. Trades carry no natural unique
// key (exact duplicates are dropped during cleaning), so inserts are plain
// appends.
type TradeStore interface {
	// InsertBulk appends cleaned trades.
	InsertBulk(ctx context.Context, trades []domain.TradeRow) error

	// GetAll retrieves all trades ordered by timestamp ASC, account ASC.
	GetAll(ctx context.Context) ([]domain.TradeRow, error)

	// GetByAccount retrieves one account's trades ordered by timestamp ASC.
	GetByAccount(ctx context.Context, account string) ([]domain.TradeRow, error)
}

// SentimentStore persists the daily sentiment index.
type SentimentStore interface {
	// InsertBulk adds sentiment days. Returns ErrDuplicateKey when a date
	// already exists.
	InsertBulk(ctx context.Context, days []domain.SentimentDay) error

	// GetAll retrieves all days ordered by date ASC.
	GetAll(ctx context.Context) ([]domain.SentimentDay, error)

	// GetByDate retrieves one day. Returns ErrNotFound if absent.
	GetByDate(ctx context.Context, date time.Time) (*domain.SentimentDay, error)
}

// DailyMetricStore persists per-(date, account) daily metrics.
type DailyMetricStore interface {
	// InsertBulk adds metrics. Returns ErrDuplicateKey when a
	// (date, account) pair already exists.
	InsertBulk(ctx context.Context, metrics []*domain.DailyAccountMetric) error

	// GetAll retrieves all metrics ordered by date ASC, account ASC.
	GetAll(ctx context.Context) ([]*domain.DailyAccountMetric, error)

	// GetByAccount retrieves one account's metrics ordered by date ASC.
	GetByAccount(ctx context.Context, account string) ([]*domain.DailyAccountMetric, error)
}

// FeatureRowStore persists merged feature rows.
type FeatureRowStore interface {
	// InsertBulk adds rows. Returns ErrDuplicateKey when a
	// (date, account) pair already exists.
	InsertBulk(ctx context.Context, rows []*domain.MergedFeatureRow) error

	// GetAll retrieves all rows ordered by account ASC, date ASC.
	GetAll(ctx context.Context) ([]*domain.MergedFeatureRow, error)

	// GetByAccount retrieves one account's rows ordered by date ASC.
	GetByAccount(ctx context.Context, account string) ([]*domain.MergedFeatureRow, error)
}
