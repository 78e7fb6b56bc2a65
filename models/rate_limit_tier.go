package models

import "time"

// RateLimitTier is static configuration; only the per-key counters derived
// from it change at runtime.
type RateLimitTier struct {
	Name       string
	Window     time.Duration
	Max        int
	DelayAfter int
	MaxDelay   time.Duration
}
