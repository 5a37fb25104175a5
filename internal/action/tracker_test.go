package action

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()
	key := Key{Name: "pay", Subject: "b-1"}

	assert.Equal(t, StateIdle, tr.Status(key).State)

	err := tr.Run(context.Background(), key, func(ctx context.Context) error {
		assert.Equal(t, StateInFlight, tr.Status(key).State)
		return errors.New("card declined")
	})
	require.EqualError(t, err, "card declined")
	assert.Equal(t, Status{State: StateFailed, Error: "card declined"}, tr.Status(key))

	err = tr.Run(context.Background(), key, func(ctx context.Context) error { return nil })
	require.NoError(t, err, "failed action can be retried")
	assert.Equal(t, StateDone, tr.Status(key).State)

	tr.Forget(key)
	assert.Equal(t, StateIdle, tr.Status(key).State)
}

func TestTracker_RejectsOverlap(t *testing.T) {
	tr := NewTracker()
	key := Key{Name: "complete", Subject: "b-7"}

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = tr.Run(context.Background(), key, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := tr.Run(context.Background(), key, func(ctx context.Context) error {
		t.Fatalf("overlapping run must not execute")
		return nil
	})
	assert.ErrorIs(t, err, ErrInFlight)

	other := Key{Name: "complete", Subject: "b-8"}
	assert.NoError(t, tr.Run(context.Background(), other, func(ctx context.Context) error { return nil }))

	close(release)
	wg.Wait()
	assert.Equal(t, StateDone, tr.Status(key).State)
}

func TestTracker_PanicMarksFailed(t *testing.T) {
	tr := NewTracker()
	key := Key{Name: "review", Subject: "b-2"}

	assert.Panics(t, func() {
		_ = tr.Run(context.Background(), key, func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.Equal(t, StateFailed, tr.Status(key).State)
}

func TestTracker_EvictsFinishedAfterTTL(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	tr := NewTracker(WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	done := Key{Name: "pay", Subject: "b-1"}
	failed := Key{Name: "withdraw", Subject: "w-1"}
	require.NoError(t, tr.Run(context.Background(), done, func(ctx context.Context) error { return nil }))
	require.Error(t, tr.Run(context.Background(), failed, func(ctx context.Context) error { return errors.New("declined") }))

	release := make(chan struct{})
	started := make(chan struct{})
	running := Key{Name: "complete", Subject: "b-2"}
	go func() {
		_ = tr.Run(context.Background(), running, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	tr.mu.Lock()
	now = now.Add(30 * time.Second)
	tr.mu.Unlock()
	assert.Equal(t, StateDone, tr.Status(done).State)

	tr.mu.Lock()
	now = now.Add(time.Minute)
	tr.mu.Unlock()
	assert.Equal(t, StateIdle, tr.Status(done).State)
	assert.Equal(t, StateIdle, tr.Status(failed).State)
	assert.Equal(t, StateInFlight, tr.Status(running).State)

	require.NoError(t, tr.Run(context.Background(), Key{Name: "pay", Subject: "b-3"}, func(ctx context.Context) error { return nil }))

	tr.mu.Lock()
	_, doneKept := tr.actions[done]
	_, failedKept := tr.actions[failed]
	_, runningKept := tr.actions[running]
	tr.mu.Unlock()
	assert.False(t, doneKept)
	assert.False(t, failedKept)
	assert.True(t, runningKept)

	close(release)
}
