package postgres

import (
	"context"
	"fmt"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// DailyMetricStore implements storage.DailyMetricStore using PostgreSQL.
type DailyMetricStore struct {
	pool *Pool
}

// NewDailyMetricStore creates a new DailyMetricStore.
func NewDailyMetricStore(pool *Pool) *DailyMetricStore {
	return &DailyMetricStore{pool: pool}
}

var _ storage.DailyMetricStore = (*DailyMetricStore)(nil)

const dailyMetricColumns = `
	metric_date, account, daily_pnl, trade_count,
	avg_trade_size, median_trade_size, worst_trade_pnl, avg_leverage,
	win_count, loss_count, win_rate,
	long_count, short_count, long_short_ratio`

// InsertBulk adds metrics atomically. Fails the entire batch on any
// duplicate (date, account) pair.
func (s *DailyMetricStore) InsertBulk(ctx context.Context, metrics []*domain.DailyAccountMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO daily_account_metrics (` + dailyMetricColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, m := range metrics {
		if m == nil || m.Account == "" || m.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			m.Date, m.Account, m.DailyPnL, m.TradeCount,
			m.AvgTradeSize, m.MedianTradeSize, m.WorstTradePnL, m.AvgLeverage,
			m.WinCount, m.LossCount, m.WinRate,
			m.LongCount, m.ShortCount, m.LongShortRatio,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert daily metric: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all metrics ordered by date ASC, account ASC.
func (s *DailyMetricStore) GetAll(ctx context.Context) ([]*domain.DailyAccountMetric, error) {
	query := `
		SELECT ` + dailyMetricColumns + `
		FROM daily_account_metrics
		ORDER BY metric_date ASC, account ASC
	`
	return s.queryMetrics(ctx, query)
}

// GetByAccount retrieves one account's metrics ordered by date ASC.
func (s *DailyMetricStore) GetByAccount(ctx context.Context, account string) ([]*domain.DailyAccountMetric, error) {
	query := `
		SELECT ` + dailyMetricColumns + `
		FROM daily_account_metrics
		WHERE account = $1
		ORDER BY metric_date ASC
	`
	return s.queryMetrics(ctx, query, account)
}

func (s *DailyMetricStore) queryMetrics(ctx context.Context, query string, args ...any) ([]*domain.DailyAccountMetric, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily metrics: %w", err)
	}
	defer rows.Close()

	var out []*domain.DailyAccountMetric
	for rows.Next() {
		m := &domain.DailyAccountMetric{}
		err := rows.Scan(
			&m.Date, &m.Account, &m.DailyPnL, &m.TradeCount,
			&m.AvgTradeSize, &m.MedianTradeSize, &m.WorstTradePnL, &m.AvgLeverage,
			&m.WinCount, &m.LossCount, &m.WinRate,
			&m.LongCount, &m.ShortCount, &m.LongShortRatio,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		m.Date = domain.DayFloor(m.Date)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily metrics: %w", err)
	}
	return out, nil
}
