package repository

import (
	"context"
	"testing"
	"time"

	"codespark/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProgressRepositoryLoadMissing(t *testing.T) {
	repo := NewMemoryProgressRepository()

	state, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryProgressRepositoryStoresCopies(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()

	state := progress.New("brave-otter", testNow)
	require.NoError(t, repo.Save(ctx, "s1", state))

	// Mutating the caller's value after saving must not leak into the store
	state.XP = 99
	state.CompletedLessons = append(state.CompletedLessons, "lesson-python-hello")

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.XP)
	assert.Empty(t, loaded.CompletedLessons)

	loaded.XP = 42
	again, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.XP)
}

func TestMemoryProgressRepositoryDelete(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", progress.New("h", testNow)))
	require.Equal(t, 1, repo.Len())

	require.NoError(t, repo.Delete(ctx, "s1"))
	assert.Equal(t, 0, repo.Len())
}

func TestMemoryProgressRepositoryEvictIdle(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()

	clock := testNow
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.Save(ctx, "stale", progress.New("a", testNow)))
	clock = clock.Add(90 * time.Minute)
	require.NoError(t, repo.Save(ctx, "fresh", progress.New("b", testNow)))
	clock = clock.Add(30 * time.Minute)

	assert.Equal(t, 1, repo.EvictIdle(time.Hour))

	stale, err := repo.Load(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)

	fresh, err := repo.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
}

func TestMemoryProgressRepositoryLoadRefreshesAccess(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()

	clock := testNow
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.Save(ctx, "s1", progress.New("a", testNow)))
	clock = clock.Add(50 * time.Minute)
	_, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	clock = clock.Add(50 * time.Minute)

	assert.Equal(t, 0, repo.EvictIdle(time.Hour))
	assert.Equal(t, 1, repo.Len())
}
