package store

import (
	"context"
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"
)

// Redis key prefixes. Counters and dedup records share one logical
// database; the prefix keeps them apart.
const (
	counterKeyPrefix = "hits:c:"
	visitKeyPrefix   = "hits:v:"
)

// Redis connection defaults, in line with the short request deadline the
// service runs under.
const (
	redisConnectTimeout = 1 * time.Second
	redisReadTimeout    = 1 * time.Second
	redisWriteTimeout   = 1 * time.Second
	redisMaxIdle        = 2
	redisMaxActive      = 50
	redisIdleTimeout    = 60 * time.Second
)

// RedisStore is a redis-backed store. INCR gives the atomic counter
// update and SET with EX gives dedup records a store-side TTL.
type RedisStore struct {
	pool *redis.Pool
}

// OpenRedis creates a redis store with a connection pool on addr.
func OpenRedis(addr, auth string) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis address must not be empty")
	}

	options := []redis.DialOption{
		redis.DialConnectTimeout(redisConnectTimeout),
		redis.DialReadTimeout(redisReadTimeout),
		redis.DialWriteTimeout(redisWriteTimeout),
	}
	if auth != "" {
		options = append(options, redis.DialPassword(auth))
	}

	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr, options...)
		},
		MaxIdle:     redisMaxIdle,
		MaxActive:   redisMaxActive,
		IdleTimeout: redisIdleTimeout,
		Wait:        true,
	}
	return &RedisStore{pool: pool}, nil
}

// IncrementCounter implements Store
func (s *RedisStore) IncrementCounter(ctx context.Context, name string) (int64, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return 0, unavailable("increment counter", err)
	}
	defer conn.Close()

	count, err := redis.Int64(conn.Do("INCR", counterKeyPrefix+name))
	if err != nil {
		return 0, unavailable("increment counter", err)
	}
	return count, nil
}

// ReadCounter implements Store
func (s *RedisStore) ReadCounter(ctx context.Context, name string) (int64, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return 0, unavailable("read counter", err)
	}
	defer conn.Close()

	count, err := redis.Int64(conn.Do("GET", counterKeyPrefix+name))
	if errors.Is(err, redis.ErrNil) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("read counter", err)
	}
	return count, nil
}

// IsDuplicate implements Store
func (s *RedisStore) IsDuplicate(ctx context.Context, fingerprint string) (bool, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return false, unavailable("check duplicate", err)
	}
	defer conn.Close()

	exists, err := redis.Bool(conn.Do("EXISTS", visitKeyPrefix+fingerprint))
	if err != nil {
		return false, unavailable("check duplicate", err)
	}
	return exists, nil
}

// RecordVisit implements Store. SET overwrites any existing record, and EX
// hands expiry to redis itself.
func (s *RedisStore) RecordVisit(ctx context.Context, fingerprint string, ttl time.Duration) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return unavailable("record visit", err)
	}
	defer conn.Close()

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	_, err = conn.Do("SET", visitKeyPrefix+fingerprint, time.Now().Unix(), "EX", seconds)
	if err != nil {
		return unavailable("record visit", err)
	}
	return nil
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.pool.Close()
}
