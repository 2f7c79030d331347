package postgres

import (
	"context"
	"fmt"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `account, ts, trade_date, pnl, trade_size, leverage, price, side`

// InsertBulk appends cleaned trades in one transaction.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []domain.TradeRow) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, t := range trades {
		if t.Account == "" || t.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			t.Account, t.Timestamp, t.Date, t.PnL, t.TradeSize, t.Leverage, t.Price, nullableSide(t.Side),
		)
		if err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all trades ordered by timestamp ASC, account ASC.
func (s *TradeStore) GetAll(ctx context.Context) ([]domain.TradeRow, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		ORDER BY ts ASC, account ASC
	`
	return s.queryTrades(ctx, query)
}

// GetByAccount retrieves one account's trades ordered by timestamp ASC.
func (s *TradeStore) GetByAccount(ctx context.Context, account string) ([]domain.TradeRow, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account = $1
		ORDER BY ts ASC
	`
	return s.queryTrades(ctx, query, account)
}

func (s *TradeStore) queryTrades(ctx context.Context, query string, args ...any) ([]domain.TradeRow, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []domain.TradeRow
	for rows.Next() {
		var t domain.TradeRow
		var side *string
		if err := rows.Scan(&t.Account, &t.Timestamp, &t.Date, &t.PnL, &t.TradeSize, &t.Leverage, &t.Price, &side); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Timestamp = t.Timestamp.UTC()
		t.Date = t.Date.UTC()
		if side != nil {
			t.Side = *side
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return out, nil
}

func nullableSide(side string) *string {
	if side == "" {
		return nil
	}
	return &side
}
