package Live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Podium/Cache"
	"Podium/Models"
)

type fakeSource struct {
	mu       sync.Mutex
	opens    int
	canceled int
	initial  []string
	ch       chan string
}

func (f *fakeSource) open() (<-chan string, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.opens++
	f.ch = make(chan string, 8)
	for _, payload := range f.initial {
		f.ch <- payload
	}

	var once sync.Once
	ch := f.ch
	return ch, func() {
		f.mu.Lock()
		f.canceled++
		f.mu.Unlock()
		once.Do(func() { close(ch) })
	}
}

func (f *fakeSource) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func newTestCache(t *testing.T) (*Cache.Store, *time.Time) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.CacheEntry{}))

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := Cache.NewStore(db)
	store.Now = func() time.Time { return now }
	return store, &now
}

func TestActivateOpensSubscriptionAndServesFirstSnapshot(t *testing.T) {
	store, _ := newTestCache(t)
	src := &fakeSource{initial: []string{`[{"id":"a"}]`}}
	feed := NewFeed("leaderboard", store, src.open, nil)
	defer feed.Close()

	payload, ok := feed.Activate(context.Background())

	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, payload)
	assert.Equal(t, 1, src.openCount())

	// the pushed snapshot also landed in the cache
	cached, ok := store.Cached("leaderboard")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, cached)
}

func TestThrottledActivationDoesNotOpenSubscription(t *testing.T) {
	store, _ := newTestCache(t)
	store.Put("leaderboard", `[{"id":"cached"}]`)
	for i := 0; i <= Cache.RefreshThreshold; i++ {
		store.Activate("leaderboard")
	}

	src := &fakeSource{initial: []string{`[{"id":"live"}]`}}
	feed := NewFeed("leaderboard", store, src.open, nil)
	defer feed.Close()

	payload, ok := feed.Activate(context.Background())

	require.True(t, ok)
	assert.Equal(t, `[{"id":"cached"}]`, payload)
	assert.Equal(t, 0, src.openCount())
}

func TestExpiredSnapshotOpensSubscriptionDespiteHotCounter(t *testing.T) {
	store, now := newTestCache(t)
	store.Put("leaderboard", `[{"id":"stale"}]`)
	for i := 0; i <= Cache.RefreshThreshold; i++ {
		store.Activate("leaderboard")
	}
	*now = now.Add(Cache.TTL + time.Second)

	src := &fakeSource{initial: []string{`[{"id":"live"}]`}}
	feed := NewFeed("leaderboard", store, src.open, nil)
	defer feed.Close()

	// keep the counter hot inside the new window
	for i := 0; i <= Cache.RefreshThreshold; i++ {
		store.Activate("leaderboard")
	}

	payload, ok := feed.Activate(context.Background())

	require.True(t, ok)
	assert.Equal(t, `[{"id":"live"}]`, payload)
	assert.Equal(t, 1, src.openCount())
}

func TestStreamEndKeepsPreviousValue(t *testing.T) {
	store, _ := newTestCache(t)
	src := &fakeSource{initial: []string{`[{"id":"a"}]`}}
	feed := NewFeed("leaderboard", store, src.open, nil)

	payload, ok := feed.Activate(context.Background())
	require.True(t, ok)
	require.Equal(t, `[{"id":"a"}]`, payload)

	// subscription errors out: the stream closes
	feed.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, `[{"id":"a"}]`, feed.Latest())

	// the next activation reopens the stream
	src.initial = []string{`[{"id":"b"}]`}
	payload, ok = feed.Activate(context.Background())
	require.True(t, ok)
	assert.Equal(t, `[{"id":"b"}]`, payload)
	assert.Equal(t, 2, src.openCount())
}

func TestCloseCancelsSubscription(t *testing.T) {
	store, _ := newTestCache(t)
	src := &fakeSource{initial: []string{`[]`}}
	feed := NewFeed("leaderboard", store, src.open, nil)

	feed.Activate(context.Background())
	feed.Close()

	src.mu.Lock()
	canceled := src.canceled
	src.mu.Unlock()
	assert.Equal(t, 1, canceled)
}
