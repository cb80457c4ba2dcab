package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SerializesSameKey(t *testing.T) {
	l := NewLocal(0)
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "physics:1:2")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocal_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocal(50 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "physics:1:2")
	require.NoError(t, err)
	defer release()

	other, err := l.Acquire(ctx, "physics:1:3")
	require.NoError(t, err)
	other()
}

func TestLocal_WaitTimesOut(t *testing.T) {
	l := NewLocal(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "chemistry:2:1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "chemistry:2:1")
	assert.ErrorIs(t, err, ErrTimeout)

	release()
	release()

	again, err := l.Acquire(ctx, "chemistry:2:1")
	require.NoError(t, err)
	again()
}

func TestLocal_ContextCancelled(t *testing.T) {
	l := NewLocal(0)

	release, err := l.Acquire(context.Background(), "biology:4:9")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "biology:4:9")
	assert.ErrorIs(t, err, context.Canceled)
}
