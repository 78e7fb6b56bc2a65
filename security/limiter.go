package security

import (
	"sync"
	"time"

	"github.com/vortexswap/vortex-go/models"
)

const delayStep = 100 * time.Millisecond

// Decision is the outcome of charging one request against a tier.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
	Delay      time.Duration
}

// TierLimiter counts requests per caller-identity key inside a fixed window
// and layers the speed-limiter delay ramp on top. Counter updates are atomic
// per (key, window) under one mutex; idle keys are evicted on a fixed cadence.
type TierLimiter struct {
	tier models.RateLimitTier

	mu     sync.Mutex
	byKey  map[string]*window
	checks uint64
}

type window struct {
	start time.Time
	count int
}

func NewTierLimiter(tier models.RateLimitTier) *TierLimiter {
	return &TierLimiter{
		tier:  tier,
		byKey: make(map[string]*window),
	}
}

func (l *TierLimiter) Tier() models.RateLimitTier { return l.tier }

// Take charges one request for key at now.
func (l *TierLimiter) Take(key string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.byKey[key]
	if !ok || now.Sub(w.start) >= l.tier.Window {
		w = &window{start: now}
		l.byKey[key] = w
	}
	w.count++

	l.checks++
	if l.checks%512 == 0 {
		cutoff := now.Add(-2 * l.tier.Window)
		for k, v := range l.byKey {
			if v.start.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	if w.count > l.tier.Max {
		return Decision{
			Allowed:    false,
			Count:      w.count,
			RetryAfter: w.start.Add(l.tier.Window).Sub(now),
		}
	}

	d := Decision{Allowed: true, Count: w.count}
	if l.tier.DelayAfter > 0 && w.count > l.tier.DelayAfter {
		d.Delay = time.Duration(w.count-l.tier.DelayAfter) * delayStep
		if max := l.tier.MaxDelay; max > 0 && d.Delay > max {
			d.Delay = max
		}
	}
	return d
}

// LimiterFactory hands out one shared limiter per configured tier.
type LimiterFactory struct {
	limiters map[string]*TierLimiter
}

func NewLimiterFactory(tiers map[string]models.RateLimitTier) *LimiterFactory {
	f := &LimiterFactory{limiters: make(map[string]*TierLimiter, len(tiers))}
	for name, tier := range tiers {
		f.limiters[name] = NewTierLimiter(tier)
	}
	return f
}

func (f *LimiterFactory) Tier(name string) (*TierLimiter, bool) {
	l, ok := f.limiters[name]
	return l, ok
}
