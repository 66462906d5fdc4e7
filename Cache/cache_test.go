package Cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Podium/Models"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.CacheEntry{}))

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(db)
	store.Now = func() time.Time { return now }
	return store, &now
}

func TestActivateCountsWithinWindow(t *testing.T) {
	store, now := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.Activate("leaderboard")
		*now = now.Add(time.Second)
	}

	entry := store.load("leaderboard")
	assert.Equal(t, 3, entry.RefreshCount)
}

func TestActivateResetsCountAfterWindow(t *testing.T) {
	store, now := newTestStore(t)

	store.Activate("leaderboard")
	store.Activate("leaderboard")
	*now = now.Add(RefreshWindow + time.Second)
	store.Activate("leaderboard")

	entry := store.load("leaderboard")
	assert.Equal(t, 1, entry.RefreshCount)
}

func TestActivateServesCacheOnlyAboveThreshold(t *testing.T) {
	store, now := newTestStore(t)
	store.Put("leaderboard", `[{"id":"a"}]`)

	// threshold activations: still live
	for i := 0; i < RefreshThreshold; i++ {
		_, served := store.Activate("leaderboard")
		assert.False(t, served)
		*now = now.Add(time.Second)
	}

	// one more inside the window tips it over
	payload, served := store.Activate("leaderboard")
	assert.True(t, served)
	assert.Equal(t, `[{"id":"a"}]`, payload)
}

func TestActivateIgnoresCacheOlderThanTTL(t *testing.T) {
	store, now := newTestStore(t)
	store.Put("leaderboard", `[{"id":"a"}]`)

	// drive the counter over the threshold
	for i := 0; i <= RefreshThreshold; i++ {
		store.Activate("leaderboard")
	}

	*now = now.Add(TTL + time.Second)
	// counter resets with the lapsed window too, but even a hot counter
	// must not serve an expired snapshot
	entry := store.load("leaderboard")
	entry.RefreshCount = RefreshThreshold + 3
	entry.LastRefreshTime = now.UnixMilli()
	store.save(&entry)

	_, served := store.Activate("leaderboard")
	assert.False(t, served)
}

func TestActivateNeverServesWithoutSnapshot(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < RefreshThreshold*2; i++ {
		_, served := store.Activate("leaderboard")
		assert.False(t, served)
	}
}

func TestPutPreservesCounters(t *testing.T) {
	store, _ := newTestStore(t)

	store.Activate("leaderboard")
	store.Activate("leaderboard")
	store.Put("leaderboard", "payload")

	entry := store.load("leaderboard")
	assert.Equal(t, 2, entry.RefreshCount)
	assert.Equal(t, "payload", entry.Payload)
}

func TestCachedHonorsTTL(t *testing.T) {
	store, now := newTestStore(t)
	store.Put("studentDetails:abc", `{"id":"abc"}`)

	payload, ok := store.Cached("studentDetails:abc")
	require.True(t, ok)
	assert.Equal(t, `{"id":"abc"}`, payload)

	*now = now.Add(TTL)
	_, ok = store.Cached("studentDetails:abc")
	assert.False(t, ok)
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	store.Put("studentDetails:abc", `{"id":"abc"}`)

	store.Invalidate("studentDetails:abc")

	_, ok := store.Cached("studentDetails:abc")
	assert.False(t, ok)
}

func TestPruneExpiredKeepsFreshRows(t *testing.T) {
	store, now := newTestStore(t)

	store.Put("stale", "old")
	*now = now.Add(TTL + RefreshWindow + time.Minute)
	store.Put("fresh", "new")

	pruned := store.PruneExpired()

	assert.Equal(t, int64(1), pruned)
	_, ok := store.Cached("fresh")
	assert.True(t, ok)
}
