package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// DailyMetricStore is an in-memory implementation of
// storage.DailyMetricStore.
type DailyMetricStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DailyAccountMetric // keyed by (date, account)
}

// NewDailyMetricStore creates a new in-memory daily metric store.
func NewDailyMetricStore() *DailyMetricStore {
	return &DailyMetricStore{data: make(map[string]*domain.DailyAccountMetric)}
}

var _ storage.DailyMetricStore = (*DailyMetricStore)(nil)

func metricKey(m *domain.DailyAccountMetric) string {
	return fmt.Sprintf("%s|%s", m.Date.Format("2006-01-02"), m.Account)
}

// InsertBulk adds metrics. Fails the entire batch on any duplicate
// (existing or intra-batch).
func (s *DailyMetricStore) InsertBulk(_ context.Context, metrics []*domain.DailyAccountMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		if m == nil || m.Account == "" || m.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		key := metricKey(m)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[key]; exists {
			return storage.ErrDuplicateKey
		}
		batch[key] = struct{}{}
	}

	for _, m := range metrics {
		metricCopy := *m
		s.data[metricKey(m)] = &metricCopy
	}
	return nil
}

// GetAll retrieves all metrics ordered by date ASC, account ASC.
func (s *DailyMetricStore) GetAll(_ context.Context) ([]*domain.DailyAccountMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.DailyAccountMetric, 0, len(s.data))
	for _, m := range s.data {
		metricCopy := *m
		out = append(out, &metricCopy)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Account < out[j].Account
	})
	return out, nil
}

// GetByAccount retrieves one account's metrics ordered by date ASC.
func (s *DailyMetricStore) GetByAccount(_ context.Context, account string) ([]*domain.DailyAccountMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.DailyAccountMetric
	for _, m := range s.data {
		if m.Account == account {
			metricCopy := *m
			out = append(out, &metricCopy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
