package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/repository"
	"paystack-billing/internal/infra/metrics"
	red "paystack-billing/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

const defaultUserCacheTTL = 10 * time.Minute

type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

// NewUserRepoCacheDecorator caches auth-id lookups in Redis. Misses and
// errors from the inner repository are never cached.
func NewUserRepoCacheDecorator(inner repository.UserRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.UserRepository {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "user_cache").Logger()
	return &userRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   &l,
	}
}

func userAuthKey(authUserID string) string { return "user:auth:" + authUserID }

func (d *userRepoCacheDecorator) FindByAuthUserID(ctx context.Context, tx repository.Tx, authUserID string) (*model.User, error) {
	key := userAuthKey(authUserID)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var user model.User
		if json.Unmarshal([]byte(val), &user) == nil {
			metrics.IncCacheRequest("user", "hit")
			return &user, nil
		}
	} else if !red.IsMiss(err) {
		d.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	metrics.IncCacheRequest("user", "miss")
	user, err := d.inner.FindByAuthUserID(ctx, tx, authUserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		b, _ := json.Marshal(user)
		if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return user, nil
}
