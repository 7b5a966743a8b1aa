package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAdmitsUpToMax(t *testing.T) {
	t.Parallel()
	l := NewRateLimiter(time.Minute, 5)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.True(t, l.TryAdmit(1, now.Add(time.Duration(i)*time.Second)), "request %d", i+1)
	}
	assert.False(t, l.TryAdmit(1, now.Add(5*time.Second)), "sixth request within window")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	t.Parallel()
	l := NewRateLimiter(time.Minute, 5)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.True(t, l.TryAdmit(1, now))
	}
	require.False(t, l.TryAdmit(1, now.Add(30*time.Second)))

	// The original five age out of the window.
	assert.True(t, l.TryAdmit(1, now.Add(61*time.Second)))
}

func TestRateLimiterRejectionLeavesNoTrace(t *testing.T) {
	t.Parallel()
	l := NewRateLimiter(time.Minute, 2)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, l.TryAdmit(1, now))
	require.True(t, l.TryAdmit(1, now))

	// Hammering while rejected must not extend the penalty.
	for i := 0; i < 10; i++ {
		require.False(t, l.TryAdmit(1, now.Add(time.Duration(i)*time.Second)))
	}

	// Once the two admitted requests age out, full capacity is back.
	later := now.Add(61 * time.Second)
	assert.True(t, l.TryAdmit(1, later))
	assert.True(t, l.TryAdmit(1, later))
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	t.Parallel()
	l := NewRateLimiter(time.Minute, 1)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, l.TryAdmit(1, now))
	require.False(t, l.TryAdmit(1, now))
	assert.True(t, l.TryAdmit(2, now), "a throttled user must not affect others")
}
