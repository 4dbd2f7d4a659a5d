package redlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) redis.UniversalClient {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestLockUnlock(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	locker := NewLocker(client, "report:rpt_1", "holder-a")
	assert.NoError(t, locker.Lock(ctx, time.Minute))

	// A second holder cannot take the same key.
	other := NewLocker(client, "report:rpt_1", "holder-b")
	assert.Error(t, other.Lock(ctx, time.Minute))

	// Only the holder may unlock.
	assert.Error(t, other.Unlock(ctx))
	assert.NoError(t, locker.Unlock(ctx))

	// Key is free again.
	assert.NoError(t, other.Lock(ctx, time.Minute))
}

func TestWaitLock(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := NewLocker(client, "report:rpt_2", "holder-a")
	require.NoError(t, first.Lock(ctx, time.Minute))

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = first.Unlock(context.Background())
	}()

	second := NewLocker(client, "report:rpt_2", "holder-b")
	assert.NoError(t, second.WaitLock(ctx, time.Minute, 2*time.Second))
}

func TestWaitLock_Timeout(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := NewLocker(client, "report:rpt_3", "holder-a")
	require.NoError(t, first.Lock(ctx, time.Minute))

	second := NewLocker(client, "report:rpt_3", "holder-b")
	err := second.WaitLock(ctx, time.Minute, 100*time.Millisecond)
	assert.Error(t, err)
}
