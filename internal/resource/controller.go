package resource

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentOps is the maximum number of operations in flight.
	// If 0, unlimited.
	MaxConcurrentOps int64

	// StreamBytesPerSec is the maximum throughput of stream reads.
	// If 0, unlimited.
	StreamBytesPerSec int64
}

// Controller manages per-handle resources (concurrency, IO).
type Controller struct {
	cfg Config

	opSem     *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentOps > 0 {
		c.opSem = semaphore.NewWeighted(cfg.MaxConcurrentOps)
	}

	if cfg.StreamBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.StreamBytesPerSec), int(cfg.StreamBytesPerSec))
	}

	return c
}

// Config returns the limits the controller was built with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireOp reserves an operation slot, blocking while all slots are busy.
func (c *Controller) AcquireOp(ctx context.Context) error {
	if c == nil || c.opSem == nil {
		return ctx.Err()
	}
	return c.opSem.Acquire(ctx, 1)
}

// TryAcquireOp reserves an operation slot without blocking.
func (c *Controller) TryAcquireOp() bool {
	if c == nil || c.opSem == nil {
		return true
	}
	return c.opSem.TryAcquire(1)
}

// ReleaseOp releases an operation slot.
func (c *Controller) ReleaseOp() {
	if c == nil || c.opSem == nil {
		return
	}
	c.opSem.Release(1)
}

// Burst returns the largest byte count a single AcquireIO call may request.
// It is 0 when IO is unlimited.
func (c *Controller) Burst() int {
	if c == nil || c.ioLimiter == nil {
		return 0
	}
	return c.ioLimiter.Burst()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than Burst are split into burst-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// TryAcquireIO attempts to acquire IO tokens without blocking.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
