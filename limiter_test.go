package blockpage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := NewLoginLimiter(2, time.Minute)
	t.Cleanup(limiter.Close)
	ip := "203.0.113.10"

	require.True(t, limiter.Check(ip))
	limiter.Record(ip)
	require.True(t, limiter.Check(ip))
	limiter.Record(ip)
	assert.False(t, limiter.Check(ip), "third attempt must be blocked")
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	t.Cleanup(limiter.Close)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Check("203.0.113.11"))
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	t.Cleanup(limiter.Close)
	ip := "203.0.113.20"

	limiter.Record(ip)
	require.False(t, limiter.Check(ip))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, limiter.Check(ip), "attempt after window must be allowed")
}

func TestLoginLimiterReset(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	t.Cleanup(limiter.Close)
	ip := "203.0.113.21"

	limiter.Record(ip)
	require.False(t, limiter.Check(ip))
	limiter.Reset(ip)
	assert.True(t, limiter.Check(ip))
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	t.Cleanup(limiter.Close)

	limiter.Record("203.0.113.30")
	assert.False(t, limiter.Check("203.0.113.30"))
	assert.True(t, limiter.Check("203.0.113.31"), "second ip is limited independently")
}

func TestLoginLimiterCloseTwice(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	limiter.Close()
	assert.NotPanics(t, limiter.Close)
}
