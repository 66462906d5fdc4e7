package Cache

import (
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Podium/Models"
)

// Throttle policy constants. A view re-entered more than RefreshThreshold
// times within a trailing RefreshWindow is treated as rapid re-navigation
// and served from cache (up to TTL stale) instead of re-subscribing.
const (
	TTL              = 5 * time.Minute
	RefreshWindow    = 30 * time.Second
	RefreshThreshold = 5
)

// Store persists cached snapshots and refresh-throttle counters in the
// local sqlite database, one row per resource key.
type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

func (s *Store) load(key string) Models.CacheEntry {
	var entry Models.CacheEntry
	if err := s.DB.Where("key = ?", key).First(&entry).Error; err != nil {
		return Models.CacheEntry{Key: key}
	}
	return entry
}

func (s *Store) save(entry *Models.CacheEntry) {
	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error; err != nil {
		log.Println("cache save error:", err.Error())
	}
}

// Activate records one activation of the resource and decides whether the
// cached snapshot should be served instead of the live feed.
//
// The refresh counter is incremented while activations stay inside the
// sliding window and reset to 1 otherwise; counter and last-refresh time
// are persisted unconditionally. The cached payload is served only when it
// exists, is younger than TTL and the counter is strictly above the
// threshold.
func (s *Store) Activate(key string) (payload string, serveCached bool) {
	now := s.Now().UnixMilli()
	entry := s.load(key)

	if now-entry.LastRefreshTime < RefreshWindow.Milliseconds() {
		entry.RefreshCount++
	} else {
		entry.RefreshCount = 1
	}
	entry.LastRefreshTime = now
	s.save(&entry)

	if entry.Payload != "" &&
		now-entry.Timestamp < TTL.Milliseconds() &&
		entry.RefreshCount > RefreshThreshold {
		return entry.Payload, true
	}
	return "", false
}

// Cached returns the stored payload if it is younger than TTL, with no
// effect on the refresh counters.
func (s *Store) Cached(key string) (string, bool) {
	entry := s.load(key)
	if entry.Payload == "" {
		return "", false
	}
	if s.Now().UnixMilli()-entry.Timestamp >= TTL.Milliseconds() {
		return "", false
	}
	return entry.Payload, true
}

// Put overwrites the cached snapshot for key with a fresh capture time.
// The refresh counters of the row are preserved.
func (s *Store) Put(key, payload string) {
	entry := s.load(key)
	entry.Payload = payload
	entry.Timestamp = s.Now().UnixMilli()
	s.save(&entry)
}

// Invalidate drops the cached snapshot, keeping the counters.
func (s *Store) Invalidate(key string) {
	entry := s.load(key)
	if entry.Payload == "" {
		return
	}
	entry.Payload = ""
	entry.Timestamp = 0
	s.save(&entry)
}

// PruneExpired deletes rows whose snapshot has outlived the TTL and whose
// counters fell out of the refresh window. Run from the janitor cron.
func (s *Store) PruneExpired() int64 {
	now := s.Now().UnixMilli()
	result := s.DB.
		Where("timestamp < ? AND last_refresh_time < ?",
			now-TTL.Milliseconds(), now-RefreshWindow.Milliseconds()).
		Delete(&Models.CacheEntry{})
	if result.Error != nil {
		log.Println("cache prune error:", result.Error.Error())
		return 0
	}
	return result.RowsAffected
}
