package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trader-sentiment-lab/internal/domain"
	"trader-sentiment-lab/internal/storage"
)

func dailyMetric(account string, d int) *domain.DailyAccountMetric {
	return &domain.DailyAccountMetric{
		Date:       time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
		Account:    account,
		DailyPnL:   42.5,
		TradeCount: 3,
		WinCount:   2,
		LossCount:  1,
		WinRate:    2.0 / 3.0,
	}
}

func TestDailyMetricStore_InsertAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyMetricStore(pool)
	ctx := context.Background()

	full := dailyMetric("alice", 1)
	full.AvgTradeSize = ptr(150.0)
	full.MedianTradeSize = ptr(120.0)
	full.WorstTradePnL = ptr(-8.0)
	full.AvgLeverage = ptr(4.5)
	full.LongCount = ptr(2)
	full.ShortCount = ptr(1)
	full.LongShortRatio = ptr(2.0)

	sparse := dailyMetric("bob", 1)

	require.NoError(t, store.InsertBulk(ctx, []*domain.DailyAccountMetric{full, sparse}))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	alice := got[0]
	assert.Equal(t, "alice", alice.Account)
	assert.Equal(t, 42.5, alice.DailyPnL)
	assert.Equal(t, 3, alice.TradeCount)
	require.NotNil(t, alice.AvgTradeSize)
	assert.Equal(t, 150.0, *alice.AvgTradeSize)
	require.NotNil(t, alice.LongCount)
	assert.Equal(t, 2, *alice.LongCount)
	require.NotNil(t, alice.LongShortRatio)
	assert.Equal(t, 2.0, *alice.LongShortRatio)
	assert.InDelta(t, 2.0/3.0, alice.WinRate, 1e-9)

	bob := got[1]
	assert.Nil(t, bob.AvgTradeSize)
	assert.Nil(t, bob.AvgLeverage)
	assert.Nil(t, bob.LongCount)
	assert.Nil(t, bob.LongShortRatio)
}

func TestDailyMetricStore_GetByAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyMetricStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.DailyAccountMetric{
		dailyMetric("alice", 2),
		dailyMetric("alice", 1),
		dailyMetric("bob", 1),
	}))

	got, err := store.GetByAccount(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Date.Before(got[1].Date))
}

func TestDailyMetricStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyMetricStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.DailyAccountMetric{dailyMetric("alice", 1)}))

	err := store.InsertBulk(ctx, []*domain.DailyAccountMetric{dailyMetric("alice", 1)})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))

	// Same account, different date is allowed.
	require.NoError(t, store.InsertBulk(ctx, []*domain.DailyAccountMetric{dailyMetric("alice", 2)}))
}

func TestDailyMetricStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyMetricStore(pool)
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.DailyAccountMetric{{Account: "alice"}})
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}
