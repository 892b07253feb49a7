package keylock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodie-backend/internal/pkg/testutil"
)

func TestLockSerializesSameKey(t *testing.T) {
	l := New()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), "session-a")
			if !assert.NoError(t, err) {
				return
			}
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.Len())
}

func TestLockDifferentKeysDoNotBlock(t *testing.T) {
	l := New()
	releaseA, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestLockHonoursContext(t *testing.T) {
	l := New()
	release, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release() // second call is a no-op
	assert.Equal(t, 0, l.Len())
}

func newShared(t *testing.T) (*miniredis.Miniredis, *Locker, *Locker) {
	mr, client := testutil.NewRedis(t)
	a := NewDistributed(client, time.Second, nil)
	b := NewDistributed(client, time.Second, nil)
	a.retry = time.Millisecond
	b.retry = time.Millisecond
	return mr, a, b
}

func TestDistributedSerializesAcrossLockers(t *testing.T) {
	_, a, b := newShared(t)
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		l := a
		if i%2 == 1 {
			l = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), "cart:tab-1")
			if !assert.NoError(t, err) {
				return
			}
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, counter)
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestDistributedWaitsForOtherHolder(t *testing.T) {
	_, a, b := newShared(t)
	release, err := a.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = b.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, b.Len())

	release()
	releaseB, err := b.Lock(context.Background(), "k")
	require.NoError(t, err)
	releaseB()
}

func TestDistributedExpiredHolderKeepsOthersLock(t *testing.T) {
	mr, a, b := newShared(t)
	releaseA, err := a.Lock(context.Background(), "k")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := b.Lock(ctx, "k")
	require.NoError(t, err)
	held, err := mr.Get("lock:k")
	require.NoError(t, err)

	// the stale holder must not delete the new token
	releaseA()
	current, err := mr.Get("lock:k")
	require.NoError(t, err)
	assert.Equal(t, held, current)

	releaseB()
	assert.False(t, mr.Exists("lock:k"))
}

func TestDistributedFallsBackWhenRedisDown(t *testing.T) {
	mr, a, _ := newShared(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	release, err := a.Lock(ctx, "k")
	require.NoError(t, err)

	// still exclusive inside the process
	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelShort()
	_, err = a.Lock(short, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.Equal(t, 0, a.Len())
}
