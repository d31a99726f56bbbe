package services

import (
	"context"
	"fmt"
	"time"

	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"
)

// KeyValueStore is the subset of pkg/cache.RedisCache the replay guard needs.
type KeyValueStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// ReplayGuard serializes concurrent verifications of the same gateway payment.
// It is an optimization in front of the unique payment_id index, never a substitute for it.
type ReplayGuard interface {
	Acquire(ctx context.Context, paymentID string) (bool, error)
	Release(ctx context.Context, paymentID string)
}

type cacheReplayGuard struct {
	store  KeyValueStore
	ttl    time.Duration
	logger *logger.Logger
}

func NewReplayGuard(store KeyValueStore, ttl time.Duration, log *logger.Logger) ReplayGuard {
	if store == nil {
		return nopReplayGuard{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cacheReplayGuard{store: store, ttl: ttl, logger: log}
}

func (g *cacheReplayGuard) key(paymentID string) string {
	return utils.CachePaymentVerifyPrefix + paymentID
}

func (g *cacheReplayGuard) Acquire(ctx context.Context, paymentID string) (bool, error) {
	ok, err := g.store.SetNX(ctx, g.key(paymentID), time.Now().Unix(), g.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to acquire payment guard: %w", err)
	}
	return ok, nil
}

func (g *cacheReplayGuard) Release(ctx context.Context, paymentID string) {
	if err := g.store.Delete(ctx, g.key(paymentID)); err != nil {
		g.logger.WithError(err).WithField("payment_id", paymentID).Warn("Failed to release payment guard")
	}
}

type nopReplayGuard struct{}

func (nopReplayGuard) Acquire(context.Context, string) (bool, error) { return true, nil }
func (nopReplayGuard) Release(context.Context, string)               {}
