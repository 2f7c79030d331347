package memory

import (
	"context"
	"sort"
	"sync"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu     sync.RWMutex
	trades []domain.TradeRow
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{}
}

var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk appends cleaned trades.
func (s *TradeStore) InsertBulk(_ context.Context, trades []domain.TradeRow) error {
	for _, t := range trades {
		if t.Account == "" || t.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trades...)
	return nil
}

// GetAll retrieves all trades ordered by timestamp ASC, account ASC.
func (s *TradeStore) GetAll(_ context.Context) ([]domain.TradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TradeRow, len(s.trades))
	copy(out, s.trades)
	sortTrades(out)
	return out, nil
}

// GetByAccount retrieves one account's trades ordered by timestamp ASC.
func (s *TradeStore) GetByAccount(_ context.Context, account string) ([]domain.TradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TradeRow
	for _, t := range s.trades {
		if t.Account == account {
			out = append(out, t)
		}
	}
	sortTrades(out)
	return out, nil
}

func sortTrades(trades []domain.TradeRow) {
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].Timestamp.Equal(trades[j].Timestamp) {
			return trades[i].Timestamp.Before(trades[j].Timestamp)
		}
		return trades[i].Account < trades[j].Account
	})
}
