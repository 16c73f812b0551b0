package sync

import (
	"context"
	"sync"

	"github.com/iudanet/daysync/internal/models"
)

// pushQueue is an unbounded FIFO drained by a single goroutine.
// Enqueue never blocks; Close waits for queued pushes to finish.
type pushQueue struct {
	push   func(ctx context.Context, entry models.CacheEntry)
	ctx    context.Context
	cancel context.CancelFunc
	cond   *sync.Cond
	done   chan struct{}
	items  []models.CacheEntry
	mu     sync.Mutex
	closed bool
}

func newPushQueue(push func(ctx context.Context, entry models.CacheEntry)) *pushQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &pushQueue{
		push:   push,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	go q.run()

	return q
}

func (q *pushQueue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			return
		}
		entry := q.items[0]
		q.items[0] = models.CacheEntry{}
		q.items = q.items[1:]
		q.mu.Unlock()

		q.push(q.ctx, entry)
	}
}

// Enqueue adds a push; it fails only after Close
func (q *pushQueue) Enqueue(entry models.CacheEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, entry)
	q.cond.Signal()
	return nil
}

// Len returns the number of pushes not yet started
func (q *pushQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting pushes and waits until the queued ones are done.
// If ctx ends first, in-flight pushes are cancelled and the rest are dropped.
func (q *pushQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.mu.Lock()
		q.items = nil
		q.mu.Unlock()
		q.cancel()
		<-q.done
		return ctx.Err()
	}
}
