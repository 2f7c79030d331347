package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestSentimentStore_InsertAndGet(t *testing.T) {
	store := NewSentimentStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []domain.SentimentDay{
		{Date: day(2), Classification: "Fear"},
		{Date: day(1), Classification: "Greed"},
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}
	if got[0].Classification != "Greed" || got[1].Classification != "Fear" {
		t.Errorf("order = %s, %s", got[0].Classification, got[1].Classification)
	}

	one, err := store.GetByDate(ctx, day(2))
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if one.Classification != "Fear" {
		t.Errorf("Classification = %q", one.Classification)
	}
}

func TestSentimentStore_GetByDate_FloorsToDay(t *testing.T) {
	store := NewSentimentStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []domain.SentimentDay{{Date: day(1), Classification: "Greed"}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByDate(ctx, day(1).Add(15*time.Hour))
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if got.Classification != "Greed" {
		t.Errorf("Classification = %q", got.Classification)
	}
}

func TestSentimentStore_NotFound(t *testing.T) {
	store := NewSentimentStore()

	_, err := store.GetByDate(context.Background(), day(9))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSentimentStore_DuplicateKey(t *testing.T) {
	store := NewSentimentStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []domain.SentimentDay{{Date: day(1)}}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []domain.SentimentDay{{Date: day(1)}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// Intra-batch duplicate fails the whole batch atomically.
	err = store.InsertBulk(ctx, []domain.SentimentDay{{Date: day(2)}, {Date: day(2)}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}
	if _, err := store.GetByDate(ctx, day(2)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("failed batch must not be partially applied, got %v", err)
	}
}
