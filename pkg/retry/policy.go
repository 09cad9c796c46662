package retry

import "time"

// Default values match the connection backoff used across the application.
const (
	DefaultBase        = time.Second
	DefaultCap         = 8 * time.Second
	DefaultMaxAttempts = 3
)

// Policy describes a bounded exponential backoff schedule. The zero value is not
// usable; call Default or fill all fields.
type Policy struct {
	Base        time.Duration // delay before the first retry
	Cap         time.Duration // upper bound for any single delay
	MaxAttempts int           // total attempts, including the first
}

// Default returns the standard connection backoff policy.
func Default() Policy {
	return Policy{Base: DefaultBase, Cap: DefaultCap, MaxAttempts: DefaultMaxAttempts}
}

// Delay returns the pause before retry number attempt (zero-based). The sequence
// is monotonically non-decreasing and never exceeds Cap. Negative attempts clamp
// to zero so the function is total.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := p.Base
	if base <= 0 {
		base = DefaultBase
	}
	cap := p.Cap
	if cap <= 0 {
		cap = DefaultCap
	}
	if base >= cap {
		return cap
	}
	// Shifting past 62 bits would overflow time.Duration before the cap check.
	if attempt > 62 {
		return cap
	}
	d := base << uint(attempt)
	if d <= 0 || d > cap {
		return cap
	}
	return d
}

// Attempts returns the configured attempt budget, falling back to the default
// when unset.
func (p Policy) Attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}
