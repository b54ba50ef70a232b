//go:build !integration

package postgres

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
	red "paystack-billing/internal/infra/redis"
)

// stubUserRepo stands in for the Postgres user repository behind the cache.
type stubUserRepo struct {
	find  func(authUserID string) (*model.User, error)
	calls int
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (s *stubUserRepo) FindByAuthUserID(ctx context.Context, tx repository.Tx, authUserID string) (*model.User, error) {
	s.calls++
	return s.find(authUserID)
}

// memRedis keeps string values in a map. A non-nil fail makes every
// command return it.
type memRedis struct {
	store map[string]string
	ttls  map[string]time.Duration
	fail  error
}

var _ red.RedisClient = (*memRedis)(nil)

func newMemRedis() *memRedis {
	return &memRedis{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memRedis) Ping(ctx context.Context) error { return m.fail }

func (m *memRedis) Get(ctx context.Context, key string) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	v, ok := m.store[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.fail != nil {
		return m.fail
	}
	switch v := value.(type) {
	case []byte:
		m.store[key] = string(v)
	case string:
		m.store[key] = v
	}
	m.ttls[key] = expiration
	return nil
}

func (m *memRedis) Incr(ctx context.Context, key string) (int64, error) { return 0, m.fail }

func (m *memRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.fail
}

func (m *memRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.store, k)
	}
	return m.fail
}

func (m *memRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return false, m.fail
}

func (m *memRedis) DeleteIfEquals(ctx context.Context, key, value string) (bool, error) {
	return false, m.fail
}

func (m *memRedis) Close() error { return nil }
