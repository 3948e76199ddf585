package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrQueueClosed is returned for work submitted after Close.
var ErrQueueClosed = errors.New("queue closed")

type task struct {
	name string
	fn   func() error
}

// Queue runs submitted tasks one at a time, in submission order, on a single
// goroutine. Submitting never blocks.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []task
	closed  bool
	stopped chan struct{}
}

// NewQueue starts the consumer goroutine.
func NewQueue() *Queue {
	q := &Queue{stopped: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Submit enqueues fn. It returns false once the queue is closed.
func (q *Queue) Submit(name string, fn func() error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, task{name: name, fn: fn})
	q.cond.Signal()
	return true
}

// Do enqueues fn and waits for its outcome. If ctx ends before the task is
// reached, fn is skipped and ctx.Err() returned; once fn starts it runs to
// completion and Do reports its result.
func (q *Queue) Do(ctx context.Context, name string, fn func() error) error {
	done := make(chan error, 1)
	ok := q.Submit(name, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task %s panicked: %v", name, r)
			}
			done <- err
		}()
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn()
	})
	if !ok {
		return ErrQueueClosed
	}
	return <-done
}

// Len is the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops accepting work, drains what is queued and waits for the
// consumer to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
	<-q.stopped
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		t := q.tasks[0]
		q.tasks[0] = task{}
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.execute(t)
	}
}

func (q *Queue) execute(t task) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("task", t.name).Msg("Queued task panicked")
		}
	}()

	if err := t.fn(); err != nil {
		log.Error().Err(err).Str("task", t.name).Msg("Failed to process queued task")
	}
}
