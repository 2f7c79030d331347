package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// SentimentStore is an in-memory implementation of storage.SentimentStore.
type SentimentStore struct {
	mu   sync.RWMutex
	data map[time.Time]domain.SentimentDay
}

// NewSentimentStore creates a new in-memory sentiment store.
func NewSentimentStore() *SentimentStore {
	return &SentimentStore{data: make(map[time.Time]domain.SentimentDay)}
}

var _ storage.SentimentStore = (*SentimentStore)(nil)

// InsertBulk adds sentiment days. Fails the entire batch on any duplicate.
func (s *SentimentStore) InsertBulk(_ context.Context, days []domain.SentimentDay) error {
	if len(days) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		if d.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		key := domain.DayFloor(d.Date)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[key]; exists {
			return storage.ErrDuplicateKey
		}
		batch[key] = struct{}{}
	}

	for _, d := range days {
		s.data[domain.DayFloor(d.Date)] = d
	}
	return nil
}

// GetAll retrieves all days ordered by date ASC.
func (s *SentimentStore) GetAll(_ context.Context) ([]domain.SentimentDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SentimentDay, 0, len(s.data))
	for _, d := range s.data {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// GetByDate retrieves one day. Returns ErrNotFound if absent.
func (s *SentimentStore) GetByDate(_ context.Context, date time.Time) (*domain.SentimentDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[domain.DayFloor(date)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	dayCopy := d
	return &dayCopy, nil
}
