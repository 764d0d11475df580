// Package resource governs how much an arena may hold and how fast it reads.
//
//	┌──────────────────────────────────────────────┐
//	│                 Controller                   │
//	├──────────────────────┬───────────────────────┤
//	│  Memory Limit        │  IO Rate Limiter      │
//	│  (semaphore)         │  (token bucket)       │
//	├──────────────────────┼───────────────────────┤
//	│  TryAcquireMemory    │  AcquireIO            │
//	│  AcquireMemory       │  RateLimitedReader    │
//	│  ReleaseMemory       │                       │
//	└──────────────────────┴───────────────────────┘
//
// # Memory Management
//
// Arenas reserve the size of every resource before registering it and give
// the reservation back when they are closed:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if !rc.TryAcquireMemory(size) {
//	    // ErrMemoryLimitExceeded - the load is refused
//	}
//	defer rc.ReleaseMemory(size)
//
// # IO Rate Limiting
//
// Copying loads read through a token bucket so that a large patch run does
// not saturate a shared disk:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//	reader := resource.NewRateLimitedReader(ctx, file, rc)
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
