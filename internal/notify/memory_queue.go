package notify

import (
	"context"
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("queue closed")

// MemoryQueue is a buffered in-process queue for single-binary setups and tests.
type MemoryQueue struct {
	ch     chan Email
	once   sync.Once
	closed chan struct{}
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Email, size), closed: make(chan struct{})}
}

func (q *MemoryQueue) Publish(ctx context.Context, e Email) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- e:
		return nil
	case <-q.closed:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.closed:
			return nil
		case e := <-q.ch:
			_ = handle(ctx, e)
		}
	}
}

func (q *MemoryQueue) Close() error {
	q.once.Do(func() { close(q.closed) })
	return nil
}
