package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemirSacirovic/serbian-estate-intelligence/internal/infrastructure/monitoring/logging"
)

const tokenPattern = `[a-f0-9-]{36}`

func newLockFixture(t *testing.T, opts ...LockOption) (*KeyedLock, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	client := &Client{
		rdb:    db,
		prefix: "estate:",
		logger: logging.NewNopLogger(),
	}
	return NewKeyedLock(client, logging.NewNopLogger(), opts...), mock
}

func TestKeyedLock_AcquireAndRelease(t *testing.T) {
	lock, mock := newLockFixture(t)

	mock.Regexp().ExpectSetNX("estate:lock:track:stan-55-2", tokenPattern, 30*time.Second).SetVal(true)
	mock.Regexp().ExpectEvalSha(unlockScript.Hash(), []string{"estate:lock:track:stan-55-2"}, tokenPattern).SetVal(int64(1))

	release, err := lock.Acquire(context.Background(), "track:stan-55-2", 30*time.Second)
	require.NoError(t, err)
	require.NotNil(t, release)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyedLock_RetriesUntilHeld(t *testing.T) {
	lock, mock := newLockFixture(t, WithRetryDelay(time.Millisecond))

	mock.Regexp().ExpectSetNX("estate:lock:busy", tokenPattern, time.Second).SetVal(false)
	mock.Regexp().ExpectSetNX("estate:lock:busy", tokenPattern, time.Second).SetVal(true)

	release, err := lock.Acquire(context.Background(), "busy", time.Second)
	require.NoError(t, err)
	require.NotNil(t, release)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyedLock_GivesUpAfterRetryBudget(t *testing.T) {
	lock, mock := newLockFixture(t, WithRetryDelay(time.Millisecond), WithRetryCount(3))

	for i := 0; i < 3; i++ {
		mock.Regexp().ExpectSetNX("estate:lock:busy", tokenPattern, time.Second).SetVal(false)
	}

	_, err := lock.Acquire(context.Background(), "busy", time.Second)
	assert.ErrorIs(t, err, ErrLockNotAcquired)
}

func TestKeyedLock_HonorsContextCancellation(t *testing.T) {
	lock, mock := newLockFixture(t, WithRetryDelay(time.Hour))

	mock.Regexp().ExpectSetNX("estate:lock:busy", tokenPattern, time.Second).SetVal(false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lock.Acquire(ctx, "busy", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
