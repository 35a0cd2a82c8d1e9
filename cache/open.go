package cache

import (
	"family-dashboard/datasource"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

// OpenStore builds the store selected by the configuration
func OpenStore(cfg datasource.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case datasource.CacheMemory, "":
		return NewMemoryStore(), nil
	case datasource.CacheSQLite:
		return NewSQLiteStore(cfg.Path)
	case datasource.CacheRedis:
		return NewRedisStore(NewRedisPool(cfg.RedisAddr, redisPoolOptions(cfg)...), ""), nil
	default:
		return nil, errors.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func redisPoolOptions(cfg datasource.CacheConfig) []RedisPoolOption {
	var options []RedisPoolOption
	if p := cfg.RedisPool; p.MaxIdle > 0 {
		options = append(options, RedisPoolMaxIdle(p.MaxIdle))
	}
	if p := cfg.RedisPool; p.MaxActive > 0 {
		options = append(options, RedisPoolMaxActive(p.MaxActive))
	}
	if p := cfg.RedisPool; p.IdleTimeout > 0 {
		options = append(options, RedisPoolIdleTimeout(p.IdleTimeout))
	}
	if timeout := cfg.RedisPool.DialTimeout; timeout > 0 {
		addr := cfg.RedisAddr
		options = append(options, RedisPoolDial(func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(timeout),
				redis.DialReadTimeout(timeout),
				redis.DialWriteTimeout(timeout),
			)
		}))
	}
	return options
}
