package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrSlotClosed is returned by Take once the slot is closed and empty.
var ErrSlotClosed = errors.New("slot closed")

// Slot is a one-deep mailbox between a single producer and a single consumer.
// Put never blocks: a value the consumer has not taken yet is replaced and
// handed back to the producer. Ownership of a value moves with it, so neither
// side ever holds a reference the other is using.
type Slot[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
	drops  atomic.Uint64
}

// NewSlot creates an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Put stores v. If an untaken value was displaced, or the slot is closed and
// v itself was rejected, that value is returned with ok set and the caller
// owns it again.
func (s *Slot[T]) Put(v T) (returned T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return v, true
	}

	select {
	case old := <-s.ch:
		returned, ok = old, true
		s.drops.Add(1)
	default:
	}

	s.ch <- v
	return returned, ok
}

// Take blocks until a value is available, the slot is closed and drained, or
// ctx is done.
func (s *Slot[T]) Take(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-s.ch:
		if !ok {
			return zero, ErrSlotClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops accepting values. Values still queued can be taken or drained.
func (s *Slot[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Drain removes and returns any queued value after Close.
func (s *Slot[T]) Drain() (T, bool) {
	var zero T
	select {
	case v, ok := <-s.ch:
		return v, ok
	default:
		return zero, false
	}
}

// Drops returns how many values were overwritten before being taken.
func (s *Slot[T]) Drops() uint64 {
	return s.drops.Load()
}
