package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"paystack-billing/internal/domain"
)

// Locker hands out a lease on a key. The returned token must be presented
// to release it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

var _ Locker = (*LeaseLocker)(nil)

// LeaseLocker is a single-attempt lease on top of SETNX. A crashed holder
// loses the lease when ttl runs out.
type LeaseLocker struct {
	client RedisClient
}

func NewLocker(client RedisClient) *LeaseLocker {
	return &LeaseLocker{client: client}
}

// TryLock returns domain.ErrLockHeld when the key is leased to someone else.
func (l *LeaseLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("lock %s: ttl must be positive", key)
	}
	token := uuid.NewString()
	acquired, err := l.client.SetNX(ctx, key, token, ttl)
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", key, err)
	}
	if !acquired {
		return "", domain.ErrLockHeld
	}
	return token, nil
}

// Unlock is a no-op when the lease already expired or moved to another holder.
func (l *LeaseLocker) Unlock(ctx context.Context, key, token string) error {
	if _, err := l.client.DeleteIfEquals(ctx, key, token); err != nil {
		return fmt.Errorf("unlock %s: %w", key, err)
	}
	return nil
}
