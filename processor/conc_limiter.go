package processor

import (
	"context"
	"sync"
)

type ConcLimiter struct {
	*sync.WaitGroup
	Pool chan struct{}
}

func (c *ConcLimiter) Increase() {
	c.Add(1)
	c.Pool <- struct{}{}
}

// IncreaseContext is Increase that gives up when ctx is cancelled
// while waiting for a free slot.
func (c *ConcLimiter) IncreaseContext(ctx context.Context) bool {
	c.Add(1)
	select {
	case c.Pool <- struct{}{}:
		return true
	case <-ctx.Done():
		c.Done()
		return false
	}
}

func (c *ConcLimiter) Decrease() {
	select {
	case <-c.Pool:
		c.Done()
	default:
	}
}

func NewConcLimiter(cLevel int) *ConcLimiter {
	if cLevel <= 0 {
		cLevel = 1
	}
	var wg sync.WaitGroup
	return &ConcLimiter{&wg, make(chan struct{}, cLevel)}
}
