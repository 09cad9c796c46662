// Package retry provides the exponential backoff schedule used when establishing
// connections to external dependencies.
//
// The schedule is a pure function of the attempt index: delay(attempt) equals
// base shifted left by attempt, capped at a configurable maximum. Components that
// own their own attempt loops (the mongo connection manager, the request guard)
// call Delay between attempts rather than re-deriving backoff math at each call
// site.
//
// Usage:
//
//	policy := retry.Policy{Base: time.Second, Cap: 8 * time.Second, MaxAttempts: 3}
//	for attempt := range policy.MaxAttempts {
//		if err := dial(ctx); err == nil {
//			return nil
//		}
//		time.Sleep(policy.Delay(attempt))
//	}
package retry
