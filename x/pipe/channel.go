// Package pipe holds the two message-passing primitives shared by the tasks:
// Channel, a bounded lossless FIFO, and Signal, a lossy latest-value cell.
package pipe

import (
	"context"

	"powermodule-go/errcode"
)

// DefaultCapacity is the queue depth used for every command channel.
const DefaultCapacity = 4

// Channel is a bounded FIFO. Order is preserved across all producers.
// When full, TrySend rejects the item and leaves the queue untouched.
type Channel[T any] struct {
	ch chan T
}

// NewChannel returns a channel holding at most capacity items.
// capacity <= 0 selects DefaultCapacity.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel[T]{ch: make(chan T, capacity)}
}

// TrySend enqueues v without blocking. It returns errcode.QueueFull when
// the channel is at capacity.
func (c *Channel[T]) TrySend(v T) error {
	select {
	case c.ch <- v:
		return nil
	default:
		return errcode.QueueFull
	}
}

// TryReceive dequeues the oldest item if one is pending.
func (c *Channel[T]) TryReceive() (T, bool) {
	select {
	case v := <-c.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Receive dequeues the oldest item, waiting for one or ctx.
func (c *Channel[T]) Receive(ctx context.Context) (T, error) {
	select {
	case v := <-c.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Drain discards every pending item and reports how many were dropped.
func (c *Channel[T]) Drain() int {
	n := 0
	for {
		select {
		case <-c.ch:
			n++
		default:
			return n
		}
	}
}

func (c *Channel[T]) Len() int { return len(c.ch) }
func (c *Channel[T]) Cap() int { return cap(c.ch) }
