package cache

import (
	"time"

	"github.com/gomodule/redigo/redis"
)

type RedisPoolOption struct {
	f func(*redis.Pool)
}

func RedisPoolDial(f func() (redis.Conn, error)) RedisPoolOption {
	return RedisPoolOption{func(p *redis.Pool) {
		p.Dial = f
	}}
}

func RedisPoolIdleTimeout(timeout time.Duration) RedisPoolOption {
	return RedisPoolOption{func(p *redis.Pool) {
		p.IdleTimeout = timeout
	}}
}

func RedisPoolMaxActive(i int) RedisPoolOption {
	return RedisPoolOption{func(p *redis.Pool) {
		p.MaxActive = i
	}}
}

func RedisPoolMaxIdle(i int) RedisPoolOption {
	return RedisPoolOption{func(p *redis.Pool) {
		p.MaxIdle = i
	}}
}

// NewRedisPool returns a pool dialing addr with short timeouts, so a missing
// Redis server degrades into cache misses instead of stalled page renders.
func NewRedisPool(addr string, options ...RedisPoolOption) *redis.Pool {
	pool := &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(2*time.Second),
				redis.DialWriteTimeout(2*time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	for _, option := range options {
		option.f(pool)
	}

	return pool
}
