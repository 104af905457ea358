package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedSlotLocker_TimesOutUnderContention(t *testing.T) {
	t.Parallel()

	locker := NewKeyedSlotLocker()

	release, err := locker.Acquire(context.Background(), "slot-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, "slot-1")
	require.Error(t, err)
	assert.Equal(t, CodeContentionTimeout, CodeOf(err))
}

func TestKeyedSlotLocker_SlotsAreIndependent(t *testing.T) {
	t.Parallel()

	locker := NewKeyedSlotLocker()

	releaseA, err := locker.Acquire(context.Background(), "slot-a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	releaseB, err := locker.Acquire(ctx, "slot-b")
	require.NoError(t, err)
	releaseB()
}

func TestKeyedSlotLocker_ReleaseHandsOff(t *testing.T) {
	t.Parallel()

	locker := NewKeyedSlotLocker()

	release, err := locker.Acquire(context.Background(), "slot-1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		release2, err := locker.Acquire(context.Background(), "slot-1")
		if err == nil {
			release2()
			close(acquired)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock after release")
	}
}
