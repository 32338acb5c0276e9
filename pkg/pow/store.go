package pow

import (
	"context"
	"sync"
	"time"
)

// Store records issued challenges until they are redeemed or expire.
type Store interface {
	// Save records challenge for ttl.
	Save(ctx context.Context, challenge string, ttl time.Duration) error
	// Consume removes challenge and reports whether it was present and unexpired.
	Consume(ctx context.Context, challenge string) (bool, error)
	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error
}

// MemoryStore is an in-process Store with periodic removal of expired entries.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired challenges are purged.
// Zero disables the background cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.cleanupInterval = interval }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates a MemoryStore. Call Close to stop the cleanup goroutine.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]time.Time),
		now:             time.Now,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}
	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}
	return ms
}

func (ms *MemoryStore) Save(_ context.Context, challenge string, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[challenge] = ms.now().Add(ttl)
	return nil
}

func (ms *MemoryStore) Consume(_ context.Context, challenge string) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	expiresAt, ok := ms.entries[challenge]
	if !ok {
		return false, nil
	}
	delete(ms.entries, challenge)
	return ms.now().Before(expiresAt), nil
}

func (ms *MemoryStore) Ping(context.Context) error { return nil }

// Len returns the number of recorded challenges, expired ones included.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.entries)
}

// Purge removes expired challenges and returns how many were dropped.
func (ms *MemoryStore) Purge() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for c, expiresAt := range ms.entries {
		if !now.Before(expiresAt) {
			delete(ms.entries, c)
			removed++
		}
	}
	return removed
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (ms *MemoryStore) Close() error {
	ms.closeOnce.Do(func() { close(ms.stopCleanup) })
	return nil
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.Purge()
		case <-ms.stopCleanup:
			return
		}
	}
}
