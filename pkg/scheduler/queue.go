package scheduler

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Queue runs submitted tasks one at a time, in submission order, on a single
// goroutine. It is the hand-off point between the scheduler and code that
// must never run concurrently with itself.
type Queue struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	logger zerolog.Logger
}

// NewQueue creates a queue holding up to size pending tasks
func NewQueue(size int, logger zerolog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		tasks:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Do submits fn. It blocks while the queue is full and drops fn once the
// queue has stopped.
func (q *Queue) Do(fn func()) {
	select {
	case <-q.done:
		q.logger.Debug().Msg("queue: stopped, task dropped")
		return
	default:
	}

	select {
	case q.tasks <- fn:
	case <-q.done:
		q.logger.Debug().Msg("queue: stopped, task dropped")
	}
}

// Run executes tasks until ctx is cancelled. Tasks still pending at that
// point are discarded.
func (q *Queue) Run(ctx context.Context) error {
	defer q.once.Do(func() { close(q.done) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-q.tasks:
			q.run(fn)
		}
	}
}

// Done is closed once the queue has stopped
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Interface("panic", r).Msg("queue: task panicked")
		}
	}()
	fn()
}
