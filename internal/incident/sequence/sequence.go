// Package sequence hands out strictly increasing issue numbers.
//
// Every Allocator performs a single atomic read-modify-write against its
// backing store, so concurrent callers never receive the same number.
package sequence

import (
	"context"
	"errors"
	"sync"

	"github.com/incidentdesk/incident-service/pkg/metrics"
)

// ErrUninitialized is returned when the counter document or key is missing.
var ErrUninitialized = errors.New("sequence counter is not initialized")

// Allocator returns the next issue number. The first number issued by a
// fresh counter is 1.
type Allocator interface {
	Next(ctx context.Context) (int64, error)
}

// MemoryAllocator keeps the counter in process memory.
type MemoryAllocator struct {
	mu    sync.Mutex
	value int64
}

func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{}
}

func (m *MemoryAllocator) Next(ctx context.Context) (int64, error) {
	m.mu.Lock()
	m.value++
	n := m.value
	m.mu.Unlock()
	metrics.SequenceAllocations.WithLabelValues("memory").Inc()
	return n, nil
}

// Current returns the last issued number without advancing the counter.
func (m *MemoryAllocator) Current() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}
