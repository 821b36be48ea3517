package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the memory checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the heap/limit ratio that degrades the check.
	// Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the ratio that fails the check.
	// Default: 0.95
	CriticalThreshold float64

	// Limit is the expected heap ceiling in bytes. Zero compares against
	// memory obtained from the OS.
	Limit uint64
}

// MemoryChecker compares heap usage with a limit. Cache stores are the
// process's main consumer of heap.
type MemoryChecker struct {
	cfg MemoryCheckerConfig
}

// NewMemoryChecker creates a memory checker.
func NewMemoryChecker(cfg MemoryCheckerConfig) *MemoryChecker {
	if cfg.WarningThreshold <= 0 || cfg.WarningThreshold >= 1 {
		cfg.WarningThreshold = 0.8
	}
	if cfg.CriticalThreshold <= 0 || cfg.CriticalThreshold >= 1 {
		cfg.CriticalThreshold = 0.95
	}
	cfg.CriticalThreshold = max(cfg.CriticalThreshold, cfg.WarningThreshold)
	return &MemoryChecker{cfg: cfg}
}

func (m *MemoryChecker) Name() string { return "memory" }

func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	limit := m.cfg.Limit
	if limit == 0 {
		limit = stats.Sys
	}
	if limit == 0 {
		return Healthy("memory stats unavailable")
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details := map[string]any{
		"heap_alloc_mb": float64(stats.HeapAlloc) / (1024 * 1024),
		"limit_mb":      float64(limit) / (1024 * 1024),
		"usage_percent": ratio * 100,
		"heap_objects":  stats.HeapObjects,
		"num_gc":        stats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	msg := fmt.Sprintf("heap at %.1f%% of limit", ratio*100)
	switch {
	case ratio >= m.cfg.CriticalThreshold:
		return Unhealthy(msg, ErrCheckFailed).WithDetails(details)
	case ratio >= m.cfg.WarningThreshold:
		return Degraded(msg).WithDetails(details)
	default:
		return Healthy(msg).WithDetails(details)
	}
}
