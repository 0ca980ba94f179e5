package strava

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterCountsRequests(t *testing.T) {
	r := fastLimiter()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}
	short, daily := r.Status()
	assert.Equal(t, shortWindowLimit-3, short)
	assert.Equal(t, dailyWindowLimit-3, daily)
}

func TestRateLimiterUpdateFromHeaders(t *testing.T) {
	r := fastLimiter()

	h := http.Header{}
	h.Set("X-RateLimit-Limit", "200, 2000")
	h.Set("X-RateLimit-Usage", "150,1999")
	r.UpdateFromHeaders(h)

	short, daily := r.Status()
	assert.Equal(t, 50, short)
	assert.Equal(t, 1, daily)

	// malformed headers are ignored
	h.Set("X-RateLimit-Usage", "lots")
	h.Set("X-RateLimit-Limit", "1,x")
	r.UpdateFromHeaders(h)
	short, daily = r.Status()
	assert.Equal(t, 50, short)
	assert.Equal(t, 1, daily)
}

func TestRateLimiterWaitHonoursContext(t *testing.T) {
	r := fastLimiter()
	r.short.usage = r.short.limit
	r.short.resetsAt = time.Now().Add(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiterWindowRolls(t *testing.T) {
	r := fastLimiter()
	r.short.usage = r.short.limit
	r.short.resetsAt = time.Now().Add(-time.Second)

	require.NoError(t, r.Wait(context.Background()))
	short, _ := r.Status()
	assert.Equal(t, shortWindowLimit-1, short)
}
