package retry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Royalwole/sesame-sub001/pkg/retry"
)

func TestPolicyDelay(t *testing.T) {
	t.Parallel()

	p := retry.Policy{Base: time.Second, Cap: 8 * time.Second, MaxAttempts: 3}

	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
	assert.Equal(t, 8*time.Second, p.Delay(4))
}

func TestPolicyDelayMonotoneAndCapped(t *testing.T) {
	t.Parallel()

	p := retry.Policy{Base: 500 * time.Millisecond, Cap: 5 * time.Second, MaxAttempts: 10}

	prev := time.Duration(0)
	for attempt := 0; attempt < 100; attempt++ {
		d := p.Delay(attempt)
		require.GreaterOrEqual(t, d, prev, "delay must not decrease at attempt %d", attempt)
		require.LessOrEqual(t, d, p.Cap, "delay must not exceed cap at attempt %d", attempt)
		prev = d
	}
}

func TestPolicyDelayClampsNegativeAttempt(t *testing.T) {
	t.Parallel()

	p := retry.Policy{Base: time.Second, Cap: 8 * time.Second}
	assert.Equal(t, p.Delay(0), p.Delay(-5))
}

func TestPolicyDelayZeroValueFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	var p retry.Policy
	assert.Equal(t, retry.DefaultBase, p.Delay(0))
	assert.Equal(t, retry.DefaultCap, p.Delay(30))
}

func TestPolicyDelayBaseAboveCap(t *testing.T) {
	t.Parallel()

	p := retry.Policy{Base: 10 * time.Second, Cap: 5 * time.Second}
	assert.Equal(t, 5*time.Second, p.Delay(0))
}

func TestPolicyAttempts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, retry.DefaultMaxAttempts, retry.Policy{}.Attempts())
	assert.Equal(t, 5, retry.Policy{MaxAttempts: 5}.Attempts())
	assert.Equal(t, retry.DefaultMaxAttempts, retry.Default().Attempts())
}
