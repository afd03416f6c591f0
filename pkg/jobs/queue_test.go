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
	done := make(chan int, 2)
	q := NewQueue[int]("test", func(_ context.Context, j Job[int]) error {
		done <- j.Payload
		return nil
	}, QueueConfig{Workers: 2})

	require.Error(t, q.Enqueue(Job[int]{ID: "early"}))

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[int]{ID: "a", Payload: 1}))
	require.NoError(t, q.Enqueue(Job[int]{ID: "b", Payload: 2}))

	got := map[int]bool{}
	for i := 0; i < 2; i++ {
		select {
		case v := <-done:
			got[v] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, got)
}

func TestQueueRetriesFailures(t *testing.T) {
	var calls int32
	succeeded := make(chan struct{})
	q := NewQueue[string]("retry", func(_ context.Context, j Job[string]) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		close(succeeded)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()
	require.NoError(t, q.Enqueue(Job[string]{ID: "x"}))

	select {
	case <-succeeded:
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
