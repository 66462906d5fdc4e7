package Live

import (
	"context"
	"sync"
	"time"

	"Podium/Cache"
)

// OpenFunc opens one live subscription and returns the stream of marshaled
// snapshots plus its cancellation handle. The channel is closed when the
// stream ends for any reason.
type OpenFunc func() (<-chan string, func())

// How long an activation waits for the first snapshot of a fresh
// subscription before falling back to the cache.
const firstSnapshotTimeout = 5 * time.Second

// Feed ties one remote resource to its cache row and its live
// subscription. Activations go through the refresh-throttle policy first;
// only when the policy declines to serve the cache is the subscription
// (re)opened. Every pushed snapshot replaces the in-memory value,
// overwrites the cache row and is broadcast to websocket clients.
type Feed struct {
	Key   string
	cache *Cache.Store
	open  OpenFunc
	hub   *Hub

	mu      sync.Mutex
	running bool
	cancel  func()
	latest  string
	ready   chan struct{}
}

func NewFeed(key string, cache *Cache.Store, open OpenFunc, hub *Hub) *Feed {
	return &Feed{Key: key, cache: cache, open: open, hub: hub}
}

// Activate serves the resource for one view activation per the throttle
// contract: a cached snapshot when the policy allows it, the live value
// otherwise. Returns false only when neither a live snapshot nor a usable
// cached one could be produced.
func (f *Feed) Activate(ctx context.Context) (string, bool) {
	if payload, ok := f.cache.Activate(f.Key); ok {
		return payload, true
	}

	ready := f.ensureRunning()

	f.mu.Lock()
	latest := f.latest
	f.mu.Unlock()
	if latest != "" {
		return latest, true
	}

	select {
	case <-ready:
		f.mu.Lock()
		latest = f.latest
		f.mu.Unlock()
		if latest != "" {
			return latest, true
		}
	case <-time.After(firstSnapshotTimeout):
	case <-ctx.Done():
	}

	// No live value yet; an expired-but-present cache row is still better
	// than a blank page, so fall back to whatever Put last stored.
	if cached, ok := f.cache.Cached(f.Key); ok {
		return cached, true
	}
	return "", false
}

// Latest returns the most recent live snapshot, empty until one arrived.
func (f *Feed) Latest() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

func (f *Feed) ensureRunning() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return f.ready
	}

	ch, cancel := f.open()
	f.cancel = cancel
	f.running = true
	f.ready = make(chan struct{})
	go f.consume(ch, f.ready)
	return f.ready
}

func (f *Feed) consume(ch <-chan string, ready chan struct{}) {
	first := true
	for payload := range ch {
		f.mu.Lock()
		f.latest = payload
		f.mu.Unlock()

		f.cache.Put(f.Key, payload)
		if f.hub != nil {
			f.hub.Broadcast(f.Key, payload)
		}

		if first {
			close(ready)
			first = false
		}
	}

	// Stream ended (error or teardown). The previous value stays in place
	// and the next activation reopens the subscription.
	f.mu.Lock()
	f.running = false
	if first {
		close(ready)
	}
	f.mu.Unlock()
}

// Close tears the subscription down. Safe to call on every exit path.
func (f *Feed) Close() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
