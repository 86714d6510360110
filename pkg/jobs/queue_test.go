package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 2})
	done := make(chan string, 2)
	q.Handle("homework.created", func(_ context.Context, j Job) error {
		done <- j.Payload
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "homework.created", Payload: "hw-1"}))
	select {
	case got := <-done:
		assert.Equal(t, "hw-1", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesFailures(t *testing.T) {
	q := NewQueue("test", QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	var calls int32
	done := make(chan struct{})
	q.Handle("flaky", func(context.Context, Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("store down")
		}
		close(done)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "flaky"}))
	select {
	case <-done:
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job not retried")
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	q := NewQueue("test", QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	var calls int32
	q.Handle("boom", func(context.Context, Job) error {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "boom"}))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestQueueEnqueueErrors(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	q.Handle("known", func(context.Context, Job) error { return nil })

	assert.ErrorIs(t, q.Enqueue(Job{Type: "known"}), ErrNotStarted)

	q.Start(context.Background())
	assert.Error(t, q.Enqueue(Job{Type: "unknown"}))
	q.Stop()

	assert.ErrorIs(t, q.Enqueue(Job{Type: "known"}), ErrNotStarted)
}
