package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	var handled atomic.Int32
	done := make(chan struct{}, 3)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		handled.Add(1)
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})

	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 3; i++ {
		id, err := q.Enqueue(Job{Type: "noop"})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job not processed")
		}
	}
	assert.Equal(t, int32(3), handled.Load())
	assert.Eventually(t, func() bool { return q.Stats().Processed == 3 }, time.Second, 10*time.Millisecond)
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var attempts atomic.Int32
	gaveUp := make(chan Job, 1)
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		attempts.Add(1)
		return errors.New("boom")
	}, QueueConfig{
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
		OnGiveUp:   func(j Job, err error) { gaveUp <- j },
	})

	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(Job{ID: "job-1", Type: "fail"})
	require.NoError(t, err)

	select {
	case j := <-gaveUp:
		assert.Equal(t, "job-1", j.ID)
		assert.Equal(t, 3, j.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("queue never gave up")
	}
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, uint64(1), q.Stats().Failed)
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(Job{})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueRunStopsOnCancel(t *testing.T) {
	q := NewQueue("run", func(context.Context, Job) error { return nil }, QueueConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- q.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := q.Enqueue(Job{})
		return err == nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}
}
