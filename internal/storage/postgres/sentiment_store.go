package postgres

import (
	"context"
	"fmt"
	"time"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

// SentimentStore implements storage.SentimentStore using PostgreSQL.
type SentimentStore struct {
	pool *Pool
}

// NewSentimentStore creates a new SentimentStore.
func NewSentimentStore(pool *Pool) *SentimentStore {
	return &SentimentStore{pool: pool}
}

var _ storage.SentimentStore = (*SentimentStore)(nil)

// InsertBulk adds sentiment days atomically. Fails the entire batch on any
// duplicate date.
func (s *SentimentStore) InsertBulk(ctx context.Context, days []domain.SentimentDay) error {
	if len(days) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sentiment_days (day, classification)
		VALUES ($1, $2)
	`
	for _, d := range days {
		if d.Date.IsZero() {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, query, d.Date, d.Classification); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert sentiment day: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all days ordered by date ASC.
func (s *SentimentStore) GetAll(ctx context.Context) ([]domain.SentimentDay, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT day, classification
		FROM sentiment_days
		ORDER BY day ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sentiment days: %w", err)
	}
	defer rows.Close()

	var out []domain.SentimentDay
	for rows.Next() {
		var d domain.SentimentDay
		if err := rows.Scan(&d.Date, &d.Classification); err != nil {
			return nil, fmt.Errorf("scan sentiment day: %w", err)
		}
		d.Date = domain.DayFloor(d.Date)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentiment days: %w", err)
	}
	return out, nil
}

// GetByDate retrieves one day. Returns ErrNotFound if absent.
func (s *SentimentStore) GetByDate(ctx context.Context, date time.Time) (*domain.SentimentDay, error) {
	var d domain.SentimentDay
	err := s.pool.QueryRow(ctx, `
		SELECT day, classification
		FROM sentiment_days
		WHERE day = $1
	`, domain.DayFloor(date)).Scan(&d.Date, &d.Classification)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query sentiment day: %w", err)
	}
	d.Date = domain.DayFloor(d.Date)
	return &d, nil
}
