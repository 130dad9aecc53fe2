package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/user-news-etl/internal/types"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the whole cache document
const DefaultRedisKey = "user-news-etl:users"

// RedisStore keeps the cache document under a single Redis key
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// OpenRedisStore connects using a redis:// URL and checks the connection
func OpenRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStore(rdb, key), nil
}

// Name returns the key, prefixed with the scheme
func (s *RedisStore) Name() string {
	return "redis:" + s.key
}

// Exists reports whether the key is set
func (s *RedisStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key).Result()
	if err != nil {
		return false, &PersistError{Store: s.Name(), Message: "failed to check key", Cause: err}
	}
	return n > 0, nil
}

// Load reads and decodes the cache document
func (s *RedisStore) Load(ctx context.Context) ([]*types.User, error) {
	value, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &PersistError{Store: s.Name(), Message: "cache key is not set"}
	}
	if err != nil {
		return nil, &PersistError{Store: s.Name(), Message: "failed to read key", Cause: err}
	}

	users, err := Decode(value)
	if err != nil {
		return nil, &PersistError{Store: s.Name(), Message: "failed to unmarshal JSON", Cause: err}
	}
	return users, nil
}

// Save overwrites the key with the full document
func (s *RedisStore) Save(ctx context.Context, users []*types.User) error {
	data, err := Encode(users)
	if err != nil {
		return &PersistError{Store: s.Name(), Message: "failed to marshal records", Cause: err}
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return &PersistError{Store: s.Name(), Message: "failed to write key", Cause: err}
	}
	return nil
}

// SaveIfAbsent writes the document only when the key is unset
func (s *RedisStore) SaveIfAbsent(ctx context.Context, users []*types.User) (bool, error) {
	data, err := Encode(users)
	if err != nil {
		return false, &PersistError{Store: s.Name(), Message: "failed to marshal records", Cause: err}
	}
	ok, err := s.rdb.SetNX(ctx, s.key, data, 0).Result()
	if err != nil {
		return false, &PersistError{Store: s.Name(), Message: "failed to write key", Cause: err}
	}
	return ok, nil
}

// Close releases the Redis connection pool
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
