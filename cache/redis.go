package cache

import (
	"encoding/json"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

// DefaultRedisPrefix namespaces dashboard keys in a shared Redis
const DefaultRedisPrefix = "dashboard:"

// RedisStore keeps entries in Redis with a native expiry matching the entry TTL
type RedisStore struct {
	pool   *redis.Pool
	prefix string
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on pool. An empty prefix selects DefaultRedisPrefix.
func NewRedisStore(pool *redis.Pool, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{pool: pool, prefix: prefix}
}

// Get loads the entry for key
func (s *RedisStore) Get(key string) (Entry, bool, error) {
	conn := s.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", s.prefix+key))
	if err == redis.ErrNil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "redis get")
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, errors.Wrap(err, "redis decode")
	}
	return entry, true, nil
}

// Put stores the entry and lets Redis expire it after its TTL
func (s *RedisStore) Put(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "redis encode")
	}

	conn := s.pool.Get()
	defer conn.Close()

	ms := entry.TTL.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	if _, err := conn.Do("SET", s.prefix+entry.Key, data, "PX", ms); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Clear deletes every key under the prefix
func (s *RedisStore) Clear() error {
	keys, err := s.keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	conn := s.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("DEL", redis.Args{}.AddFlat(keys)...); err != nil {
		return errors.Wrap(err, "redis clear")
	}
	return nil
}

// Len counts keys under the prefix
func (s *RedisStore) Len() (int, error) {
	keys, err := s.keys()
	return len(keys), err
}

// Close closes the pool
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

func (s *RedisStore) keys() ([]string, error) {
	conn := s.pool.Get()
	defer conn.Close()

	var keys []string
	cursor := 0
	for {
		values, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", s.prefix+"*", "COUNT", 100))
		if err != nil {
			return nil, errors.Wrap(err, "redis scan")
		}
		var batch []string
		if _, err := redis.Scan(values, &cursor, &batch); err != nil {
			return nil, errors.Wrap(err, "redis scan")
		}
		keys = append(keys, batch...)
		if cursor == 0 {
			return keys, nil
		}
	}
}
