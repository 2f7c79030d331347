package clickhouse

import (
	"context"
	"fmt"
	"time"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// FeatureRowStore implements storage.FeatureRowStore using ClickHouse.
// ClickHouse MergeTree does not enforce uniqueness at insert time, so
// duplicates are detected with explicit existence checks before insert.
type FeatureRowStore struct {
	conn *Conn
}

// NewFeatureRowStore creates a new FeatureRowStore.
func NewFeatureRowStore(conn *Conn) *FeatureRowStore {
	return &FeatureRowStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureRowStore = (*FeatureRowStore)(nil)

const featureRowColumns = `
	metric_date, account, daily_pnl, trade_count,
	avg_trade_size, median_trade_size, worst_trade_pnl, avg_leverage,
	win_count, loss_count, win_rate,
	long_count, short_count, long_short_ratio,
	classification, pnl_lag1, pnl_roll3, winrate_lag1, tradecount_roll3`

// InsertBulk adds rows. Fails the entire batch on any duplicate
// (date, account) pair, existing or intra-batch.
func (s *FeatureRowStore) InsertBulk(ctx context.Context, rows []*domain.MergedFeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	type key struct {
		date    int64
		account string
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Account == "" || r.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		k := key{r.Date.Unix(), r.Account}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, r := range rows {
		exists, err := s.exists(ctx, r.Date, r.Account)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO merged_feature_rows (`+featureRowColumns+`)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.Date, r.Account, r.DailyPnL, uint32(r.TradeCount),
			r.AvgTradeSize, r.MedianTradeSize, r.WorstTradePnL, r.AvgLeverage,
			uint32(r.WinCount), uint32(r.LossCount), r.WinRate,
			toNullableUint32(r.LongCount), toNullableUint32(r.ShortCount), r.LongShortRatio,
			r.Classification, r.PnLLag1, r.PnLRoll3, r.WinRateLag1, r.TradeCountRoll3,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetAll retrieves all rows ordered by account ASC, date ASC.
func (s *FeatureRowStore) GetAll(ctx context.Context) ([]*domain.MergedFeatureRow, error) {
	query := `
		SELECT ` + featureRowColumns + `
		FROM merged_feature_rows
		ORDER BY account ASC, metric_date ASC
	`
	return s.queryRows(ctx, query)
}

// GetByAccount retrieves one account's rows ordered by date ASC.
func (s *FeatureRowStore) GetByAccount(ctx context.Context, account string) ([]*domain.MergedFeatureRow, error) {
	query := `
		SELECT ` + featureRowColumns + `
		FROM merged_feature_rows
		WHERE account = ?
		ORDER BY metric_date ASC
	`
	return s.queryRows(ctx, query, account)
}

func (s *FeatureRowStore) queryRows(ctx context.Context, query string, args ...any) ([]*domain.MergedFeatureRow, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feature rows: %w", err)
	}
	defer rows.Close()

	var out []*domain.MergedFeatureRow
	for rows.Next() {
		r := &domain.MergedFeatureRow{}
		var tradeCount, winCount, lossCount uint32
		var longCount, shortCount *uint32
		err := rows.Scan(
			&r.Date, &r.Account, &r.DailyPnL, &tradeCount,
			&r.AvgTradeSize, &r.MedianTradeSize, &r.WorstTradePnL, &r.AvgLeverage,
			&winCount, &lossCount, &r.WinRate,
			&longCount, &shortCount, &r.LongShortRatio,
			&r.Classification, &r.PnLLag1, &r.PnLRoll3, &r.WinRateLag1, &r.TradeCountRoll3,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		r.Date = domain.DayFloor(r.Date)
		r.TradeCount = int(tradeCount)
		r.WinCount = int(winCount)
		r.LossCount = int(lossCount)
		r.LongCount = fromNullableUint32(longCount)
		r.ShortCount = fromNullableUint32(shortCount)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}
	return out, nil
}

func (s *FeatureRowStore) exists(ctx context.Context, date time.Time, account string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM merged_feature_rows
		WHERE metric_date = ? AND account = ?
	`, date, account).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toNullableUint32(v *int) *uint32 {
	if v == nil {
		return nil
	}
	u := uint32(*v)
	return &u
}

func fromNullableUint32(v *uint32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
