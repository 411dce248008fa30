package hunt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripedLocker_SerializesSameKey(t *testing.T) {
	l := NewStripedLocker()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "track:abc", time.Second)
			require.NoError(t, err)
			counter++
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestStripedLocker_ReleaseAllowsReacquire(t *testing.T) {
	l := NewStripedLocker()

	release, err := l.Acquire(context.Background(), "track:a", time.Second)
	require.NoError(t, err)
	release()

	done := make(chan struct{})
	go func() {
		again, err := l.Acquire(context.Background(), "track:a", time.Second)
		assert.NoError(t, err)
		again()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("released key could not be reacquired")
	}
}

//Personal.AI order the ending
