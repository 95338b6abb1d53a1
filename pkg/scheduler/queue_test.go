package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startQueue(t *testing.T, size int) (*Queue, context.CancelFunc) {
	t.Helper()
	q := NewQueue(size, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = q.Run(ctx) }()
	t.Cleanup(cancel)
	return q, cancel
}

func TestQueue_RunsInOrder(t *testing.T) {
	q, _ := startQueue(t, 4)

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		q.Do(func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestQueue_NoOverlap(t *testing.T) {
	q, _ := startQueue(t, 8)

	var mu sync.Mutex
	running, maxRunning := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		q.Do(func() {
			defer wg.Done()
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	wg.Wait()
	assert.Equal(t, 1, maxRunning)
}

func TestQueue_RecoversPanic(t *testing.T) {
	q, _ := startQueue(t, 2)

	done := make(chan struct{})
	q.Do(func() { panic("boom") })
	q.Do(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queue stopped after a panicking task")
	}
}

func TestQueue_DropsAfterStop(t *testing.T) {
	q, cancel := startQueue(t, 1)
	cancel()

	select {
	case <-q.Done():
	case <-time.After(time.Second):
		t.Fatal("queue did not stop")
	}

	ran := false
	q.Do(func() { ran = true })
	time.Sleep(10 * time.Millisecond)
	require.False(t, ran)
}
