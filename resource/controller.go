// Package resource bounds the I/O and memory appetite of the loading
// pipeline. The bounded queues already cap queued samples; the controller
// additionally caps bytes in flight inside workers and the read rate
// against shared storage.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes caps sample bytes held by workers between read and
	// hand-off. If 0, no limit is enforced (only tracking).
	MemoryLimitBytes int64

	// IOLimitBytesPerSec caps the aggregate read throughput of all
	// workers. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared worker resources.
type Controller struct {
	memSem    *semaphore.Weighted // nil if unlimited
	memLimit  int64
	memUsed   atomic.Int64
	ioLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{memLimit: cfg.MemoryLimitBytes}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireMemory blocks until n bytes fit under the memory limit.
// A single allocation larger than the whole limit is admitted alone rather
// than deadlocking.
func (c *Controller) AcquireMemory(ctx context.Context, n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.memSem != nil {
		if n > c.memLimit {
			n = c.memLimit
		}
		if err := c.memSem.Acquire(ctx, n); err != nil {
			return err
		}
	}
	c.memUsed.Add(n)
	return nil
}

// ReleaseMemory returns n bytes to the pool. n must match the amount
// passed to the corresponding AcquireMemory.
func (c *Controller) ReleaseMemory(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.memSem != nil {
		if n > c.memLimit {
			n = c.memLimit
		}
		c.memSem.Release(n)
	}
	c.memUsed.Add(-n)
}

// MemoryUsed reports the bytes currently accounted to workers.
func (c *Controller) MemoryUsed() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// WaitIO blocks until reading n bytes is within the configured rate.
func (c *Controller) WaitIO(ctx context.Context, n int64) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}
	// WaitN caps n at the burst size.
	if burst := int64(c.ioLimiter.Burst()); n > burst {
		n = burst
	}
	return c.ioLimiter.WaitN(ctx, int(n))
}
