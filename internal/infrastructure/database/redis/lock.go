package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/application/hunt"
	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/DemirSacirovic/serbian-estate-intelligence/pkg/errors"
)

var ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "lock not acquired")

const (
	defaultLockRetryDelay = 50 * time.Millisecond
	defaultLockRetryCount = 100
)

// unlockScript releases the key only when the caller still owns it, so a
// lock that expired and was re-acquired elsewhere is never deleted by the
// stale holder.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// KeyedLock is the Redis implementation of hunt.Locker.  Each Acquire spins
// on SETNX with a random owner token until the key is held or the context
// ends.
type KeyedLock struct {
	client     *Client
	retryDelay time.Duration
	retryCount int
	logger     logging.Logger
}

// LockOption tunes acquisition behavior.
type LockOption func(*KeyedLock)

// WithRetryDelay sets the pause between SETNX attempts.
func WithRetryDelay(d time.Duration) LockOption {
	return func(l *KeyedLock) { l.retryDelay = d }
}

// WithRetryCount bounds the number of SETNX attempts per Acquire.
func WithRetryCount(n int) LockOption {
	return func(l *KeyedLock) { l.retryCount = n }
}

// NewKeyedLock builds the lock on top of a connected client.
func NewKeyedLock(client *Client, log logging.Logger, opts ...LockOption) *KeyedLock {
	if log == nil {
		log = logging.NewNopLogger()
	}
	l := &KeyedLock{
		client:     client,
		retryDelay: defaultLockRetryDelay,
		retryCount: defaultLockRetryCount,
		logger:     log.Named("keyed_lock"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ hunt.Locker = (*KeyedLock)(nil)

// Acquire blocks until the key is held or the context ends.  The returned
// release function is safe to call exactly once from any goroutine.
func (l *KeyedLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	fullKey := l.client.KeyPrefix() + "lock:" + key
	token := uuid.NewString()

	for i := 0; i < l.retryCount; i++ {
		ok, err := l.client.Underlying().SetNX(ctx, fullKey, token, ttl).Result()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock key")
		}
		if ok {
			return func() { l.release(fullKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return nil, ErrLockNotAcquired
}

func (l *KeyedLock) release(fullKey, token string) {
	// Release outlives the acquiring context so an already-cancelled batch
	// still unlocks promptly.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := unlockScript.Run(ctx, l.client.Underlying(), []string{fullKey}, token).Result()
	if err != nil {
		l.logger.Warn("lock release failed", logging.String("key", fullKey), logging.Err(err))
		return
	}
	if n, ok := res.(int64); ok && n == 0 {
		l.logger.Warn("lock expired before release", logging.String("key", fullKey))
	}
}

//Personal.AI order the ending
