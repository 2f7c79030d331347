package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// FeatureRowStore is an in-memory implementation of
// storage.FeatureRowStore.
type FeatureRowStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MergedFeatureRow // keyed by (date, account)
}

// NewFeatureRowStore creates a new in-memory feature row store.
func NewFeatureRowStore() *FeatureRowStore {
	return &FeatureRowStore{data: make(map[string]*domain.MergedFeatureRow)}
}

var _ storage.FeatureRowStore = (*FeatureRowStore)(nil)

func featureRowKey(r *domain.MergedFeatureRow) string {
	return fmt.Sprintf("%s|%s", r.Date.Format("2006-01-02"), r.Account)
}

// InsertBulk adds rows. Fails the entire batch on any duplicate.
func (s *FeatureRowStore) InsertBulk(_ context.Context, rows []*domain.MergedFeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Account == "" || r.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		key := featureRowKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[key]; exists {
			return storage.ErrDuplicateKey
		}
		batch[key] = struct{}{}
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[featureRowKey(r)] = &rowCopy
	}
	return nil
}

// GetAll retrieves all rows ordered by account ASC, date ASC.
func (s *FeatureRowStore) GetAll(_ context.Context) ([]*domain.MergedFeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MergedFeatureRow, 0, len(s.data))
	for _, r := range s.data {
		rowCopy := *r
		out = append(out, &rowCopy)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// GetByAccount retrieves one account's rows ordered by date ASC.
func (s *FeatureRowStore) GetByAccount(_ context.Context, account string) ([]*domain.MergedFeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.MergedFeatureRow
	for _, r := range s.data {
		if r.Account == account {
			rowCopy := *r
			out = append(out, &rowCopy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
