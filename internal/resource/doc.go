// Package resource bounds how much work an arraydb handle issues at once.
//
// The Controller governs two resources:
//
//   - Concurrency: a weighted semaphore caps in-flight operations on a
//     shared handle
//   - IO: a token bucket throttles the bytes emitted by stream reads
//
// # Concurrency
//
//	rc := resource.NewController(resource.Config{MaxConcurrentOps: 8})
//
//	if err := rc.AcquireOp(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseOp()
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{StreamBytesPerSec: 64 << 20})
//	w := resource.NewRateLimitedWriter(ctx, out, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully: they become no-ops, so
// optional limits need no nil checks at the call site.
package resource
