package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

type failingDeleter struct{}

func (failingDeleter) DeleteDueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, errors.New("store offline")
}

func TestSweeperDeletesOnlyPastHomeworks(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newHomeworkStoreStub(
		models.Homework{ID: "yesterday", DueDate: now.Add(-24 * time.Hour)},
		models.Homework{ID: "today", DueDate: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)},
		models.Homework{ID: "tomorrow", DueDate: now.Add(24 * time.Hour)},
	)
	cacheRepo := newCacheRepoStub()
	cacheRepo.data[homeworkListCacheKey] = []byte(`[]`)
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, true)
	sweeper := NewSweeperService(store, cache, metrics, nil, func() time.Time { return now })

	deleted, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.NotContains(t, store.homeworks, "yesterday")
	assert.Contains(t, store.homeworks, "today")
	assert.Contains(t, store.homeworks, "tomorrow")
	assert.NotContains(t, cacheRepo.data, homeworkListCacheKey)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.expired))
}

func TestSweeperReportsStoreFailure(t *testing.T) {
	sweeper := NewSweeperService(failingDeleter{}, nil, nil, nil, nil)

	deleted, err := sweeper.Sweep(context.Background())
	require.Error(t, err)
	assert.Zero(t, deleted)
}
