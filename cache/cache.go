package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"family-dashboard/dlog"
)

// Entry is a memoized value with the time it was computed and its expiry window
type Entry struct {
	Key       string        `json:"key"`
	Value     []byte        `json:"value"`
	CreatedAt time.Time     `json:"createdAt"`
	TTL       time.Duration `json:"ttl"`
}

// Expired reports whether the entry's window has elapsed at now
func (e Entry) Expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) >= e.TTL
}

// Store holds cache entries. Implementations need not evict; Memo checks expiry.
type Store interface {
	Get(key string) (Entry, bool, error)
	Put(entry Entry) error
	Clear() error
	Len() (int, error)
	Close() error
}

// Stats reports cache performance
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Memo memoizes panel computations in a Store, one slot per key
type Memo struct {
	store  Store
	logger *dlog.Logger
	now    func() time.Time

	mutex sync.Mutex
	locks map[string]*sync.Mutex

	generation atomic.Uint64
	hits       atomic.Int64
	misses     atomic.Int64
}

// NewMemo creates a memoizer over store
func NewMemo(store Store, logger *dlog.Logger) *Memo {
	if logger == nil {
		logger = dlog.Discard()
	}
	return &Memo{
		store:  store,
		logger: logger,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetClock replaces the time source, for tests
func (m *Memo) SetClock(now func() time.Time) {
	m.now = now
}

// Do returns the cached value for key when it is younger than ttl, otherwise it
// runs compute and stores the result. Results are cached whatever they contain,
// so fallback values also wait out their window. A ttl of zero bypasses the cache.
// Concurrent callers for the same key run compute at most once.
func Do[T any](ctx context.Context, m *Memo, key string, ttl time.Duration, compute func(context.Context) T) T {
	if ttl <= 0 {
		return compute(ctx)
	}

	lock := m.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if entry, ok := m.lookup(key); ok {
		var cached T
		err := json.Unmarshal(entry.Value, &cached)
		if err == nil {
			m.hits.Add(1)
			m.logger.Debugf("cache HIT for %s (age: %s)", key, m.now().Sub(entry.CreatedAt).Round(time.Second))
			return cached
		}
		m.logger.Printf("cache entry %s unreadable, recomputing: %v", key, err)
	}

	m.misses.Add(1)
	m.logger.Debugf("cache MISS for %s, fetching fresh data", key)

	generation := m.generation.Load()
	value := compute(ctx)

	// A refresh during compute invalidates this result
	if m.generation.Load() != generation {
		return value
	}

	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Printf("cache entry %s not stored: %v", key, err)
		return value
	}
	if err := m.store.Put(Entry{Key: key, Value: data, CreatedAt: m.now(), TTL: ttl}); err != nil {
		m.logger.Printf("cache entry %s not stored: %v", key, err)
	}
	return value
}

// ClearAll drops every slot so the next access of each key recomputes
func (m *Memo) ClearAll() error {
	m.generation.Add(1)
	return m.store.Clear()
}

// Stats returns hit and miss counters and the number of stored entries
func (m *Memo) Stats() (Stats, error) {
	n, err := m.store.Len()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Entries: n, Hits: m.hits.Load(), Misses: m.misses.Load()}, nil
}

// Close releases the underlying store
func (m *Memo) Close() error {
	return m.store.Close()
}

func (m *Memo) lookup(key string) (Entry, bool) {
	entry, found, err := m.store.Get(key)
	if err != nil {
		m.logger.Printf("cache lookup %s failed: %v", key, err)
		return Entry{}, false
	}
	if !found || entry.Expired(m.now()) {
		return Entry{}, false
	}
	return entry, true
}

func (m *Memo) lockFor(key string) *sync.Mutex {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	return lock
}
