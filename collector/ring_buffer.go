// Package collector keeps the most recent logs and browser events of a session
// in memory so they can be attached to failure diagnostics.
package collector

import "sync"

// RingBuffer keeps the last Capacity values added to it. It is safe for concurrent use.
type RingBuffer[T any] struct {
	mu       sync.RWMutex
	values   []T
	next     int
	size     int
	dropped  uint64
	capacity int
}

// NewRingBuffer creates a ring buffer holding up to capacity values.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("collector: ring buffer capacity must be positive")
	}
	return &RingBuffer[T]{
		values:   make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends v, overwriting the oldest value once the buffer is full.
func (rb *RingBuffer[T]) Add(v T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.values[rb.next] = v
	rb.next = (rb.next + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	} else {
		rb.dropped++
	}
}

// Last returns up to n of the most recent values, oldest first.
func (rb *RingBuffer[T]) Last(n int) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	count := min(max(n, 0), rb.size)
	result := make([]T, count)
	start := rb.next - count + rb.capacity
	for i := range count {
		result[i] = rb.values[(start+i)%rb.capacity]
	}
	return result
}

// All returns every buffered value, oldest first.
func (rb *RingBuffer[T]) All() []T {
	return rb.Last(rb.capacity)
}

func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}

func (rb *RingBuffer[T]) Cap() int {
	return rb.capacity
}

// Dropped returns how many values were overwritten.
func (rb *RingBuffer[T]) Dropped() uint64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.dropped
}
