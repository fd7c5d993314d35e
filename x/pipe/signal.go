package pipe

import (
	"context"
	"sync"
)

// Signal is a single-slot cell with overwrite semantics. A reader sees the
// most recently written value; intermediate writes may be skipped.
//
// TryTake and Wait consume the pending value (the cell reports "nothing new"
// until the next write). Load never consumes and is meant for readers that
// only report state.
type Signal[T any] struct {
	mu      sync.Mutex
	val     T
	written bool
	pending bool
	wake    chan struct{}
}

func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{wake: make(chan struct{}, 1)}
}

// Signal stores v, replacing any value not yet taken.
func (s *Signal[T]) Signal(v T) {
	s.mu.Lock()
	s.val = v
	s.written = true
	s.pending = true
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// TryTake returns the latest value if it was written since the last take.
func (s *Signal[T]) TryTake() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		var zero T
		return zero, false
	}
	s.pending = false
	return s.val, true
}

// Wait blocks until a value is pending, then takes it.
func (s *Signal[T]) Wait(ctx context.Context) (T, error) {
	for {
		if v, ok := s.TryTake(); ok {
			return v, nil
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Load returns the most recent value ever written, and false if none was.
func (s *Signal[T]) Load() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.written
}
