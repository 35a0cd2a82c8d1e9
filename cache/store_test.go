package cache

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"family-dashboard/datasource"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"
)

// exerciseStore runs the behaviour every Store must share
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	created := time.Unix(1736496000, 123)
	entry := Entry{Key: "weather", Value: []byte(`{"html":"苗栗: 18.5°C"}`), CreatedAt: created, TTL: 10 * time.Minute}

	if _, found, err := s.Get("weather"); err != nil || found {
		t.Fatalf("expected a miss on an empty store, got found=%v err=%v", found, err)
	}

	if err := s.Put(entry); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Entry{Key: "fuel", Value: []byte(`{}`), CreatedAt: created, TTL: time.Hour}); err != nil {
		t.Fatal(err)
	}

	got, found, err := s.Get("weather")
	if err != nil || !found {
		t.Fatalf("expected a hit, got found=%v err=%v", found, err)
	}
	if !bytes.Equal(got.Value, entry.Value) {
		t.Errorf("got value `%s`, want `%s`", got.Value, entry.Value)
	}
	if !got.CreatedAt.Equal(created) || got.TTL != entry.TTL {
		t.Errorf("got created %v ttl %v, want %v %v", got.CreatedAt, got.TTL, created, entry.TTL)
	}

	if n, err := s.Len(); err != nil || n != 2 {
		t.Errorf("got len %d err %v, want 2", n, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Len(); n != 0 {
		t.Errorf("got len %d after clear, want 0", n)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	value := []byte("abc")
	_ = s.Put(Entry{Key: "k", Value: value, TTL: time.Minute})
	value[0] = 'x'

	got, _, _ := s.Get("k")
	if string(got.Value) != "abc" {
		t.Errorf("stored value was shared with the caller: `%s`", got.Value)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStoreClearExpired(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	now := time.Now()
	_ = s.Put(Entry{Key: "old", Value: []byte("1"), CreatedAt: now.Add(-2 * time.Hour), TTL: time.Hour})
	_ = s.Put(Entry{Key: "new", Value: []byte("2"), CreatedAt: now, TTL: time.Hour})

	removed, err := s.ClearExpired(now)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("got %d removed, want 1", removed)
	}
	if _, found, _ := s.Get("new"); !found {
		t.Error("fresh entry should survive")
	}
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	s := NewRedisStore(NewRedisPool(mr.Addr()), "")
	defer s.Close()

	exerciseStore(t, s)

	t.Run("should expire keys natively", func(t *testing.T) {
		_ = s.Put(Entry{Key: "fuel", Value: []byte("1"), CreatedAt: time.Now(), TTL: time.Hour})
		if ttl := mr.TTL(DefaultRedisPrefix + "fuel"); ttl != time.Hour {
			t.Errorf("got redis ttl %v, want 1h", ttl)
		}
		mr.FastForward(time.Hour + time.Second)
		if _, found, _ := s.Get("fuel"); found {
			t.Error("expected the key to be gone after its ttl")
		}
	})

	t.Run("should leave foreign keys alone on clear", func(t *testing.T) {
		mr.Set("other:key", "keep")
		_ = s.Put(Entry{Key: "weather", Value: []byte("1"), CreatedAt: time.Now(), TTL: time.Hour})
		if err := s.Clear(); err != nil {
			t.Fatal(err)
		}
		if !mr.Exists("other:key") {
			t.Error("clear removed a key outside the prefix")
		}
	})
}

func TestRedisPoolOptions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	pool := NewRedisPool("unused:0",
		RedisPoolDial(func() (redis.Conn, error) { return redis.Dial("tcp", mr.Addr()) }),
		RedisPoolIdleTimeout(42*time.Second),
		RedisPoolMaxActive(42),
		RedisPoolMaxIdle(24),
	)
	defer pool.Close()

	if pool.IdleTimeout != 42*time.Second {
		t.Errorf("got `%v`, want `%v` for pool IdleTimeout", pool.IdleTimeout, 42*time.Second)
	}
	if pool.MaxActive != 42 || pool.MaxIdle != 24 {
		t.Errorf("got MaxActive %d MaxIdle %d", pool.MaxActive, pool.MaxIdle)
	}

	conn := pool.Get()
	defer conn.Close()
	if resp, err := redis.String(conn.Do("PING")); err != nil || resp != "PONG" {
		t.Errorf("got `%s` `%v`, want PONG", resp, err)
	}
}

func TestOpenStore(t *testing.T) {
	s, err := OpenStore(datasource.CacheConfig{Backend: datasource.CacheMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("got %T, want *MemoryStore", s)
	}

	s, err = OpenStore(datasource.CacheConfig{Backend: datasource.CacheSQLite, Path: filepath.Join(t.TempDir(), "c.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("got %T, want *SQLiteStore", s)
	}

	if _, err := OpenStore(datasource.CacheConfig{Backend: "memcached"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpenStoreRedisPool(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	s, err := OpenStore(datasource.CacheConfig{
		Backend:   datasource.CacheRedis,
		RedisAddr: mr.Addr(),
		RedisPool: datasource.RedisPoolConfig{
			MaxIdle:     7,
			MaxActive:   12,
			IdleTimeout: 90 * time.Second,
			DialTimeout: time.Second,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	store, ok := s.(*RedisStore)
	if !ok {
		t.Fatalf("got %T, want *RedisStore", s)
	}
	if store.pool.MaxIdle != 7 || store.pool.MaxActive != 12 {
		t.Errorf("got MaxIdle %d MaxActive %d, want 7 and 12", store.pool.MaxIdle, store.pool.MaxActive)
	}
	if store.pool.IdleTimeout != 90*time.Second {
		t.Errorf("got `%v`, want `%v` for pool IdleTimeout", store.pool.IdleTimeout, 90*time.Second)
	}

	if err := s.Put(Entry{Key: "fuel", Value: []byte("1"), CreatedAt: time.Now(), TTL: time.Minute}); err != nil {
		t.Fatalf("configured dialer failed: %v", err)
	}
	if n, _ := s.Len(); n != 1 {
		t.Errorf("got len %d, want 1", n)
	}
}
