package roster

import (
	"context"
	"sync"
)

// MemoryLoadCounter is the single-process fallback used in tests and file
// persistence mode.
type MemoryLoadCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryLoadCounter() *MemoryLoadCounter {
	return &MemoryLoadCounter{counts: make(map[string]int)}
}

func (c *MemoryLoadCounter) Get(_ context.Context, staffID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[staffID], nil
}

func (c *MemoryLoadCounter) Increment(_ context.Context, staffID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[staffID]++

	return nil
}

func (c *MemoryLoadCounter) Decrement(_ context.Context, staffID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counts[staffID] > 0 {
		c.counts[staffID]--
	}

	return nil
}
