package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava allows 100 requests per 15 minutes and 1000 per day
const (
	shortWindowLimit = 100
	dailyWindowLimit = 1000
	shortWindow      = 15 * time.Minute
	minRequestGap    = 150 * time.Millisecond
)

// window is one rate-limit bucket that empties when it resets
type window struct {
	limit    int
	usage    int
	resetsAt time.Time
	next     func(now time.Time) time.Time
}

func (w *window) roll(now time.Time) {
	if now.After(w.resetsAt) {
		w.usage = 0
		w.resetsAt = w.next(now)
	}
}

func (w *window) remaining() int {
	return w.limit - w.usage
}

// RateLimiter paces requests against Strava's short and daily limits
type RateLimiter struct {
	mu          sync.Mutex
	short       window
	daily       window
	minInterval time.Duration
	lastRequest time.Time
	now         func() time.Time
}

// NewRateLimiter creates a rate limiter with Strava's published limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	nextShort := func(t time.Time) time.Time { return t.Add(shortWindow) }
	nextDaily := func(t time.Time) time.Time { return t.Truncate(24 * time.Hour).Add(24 * time.Hour) }
	return &RateLimiter{
		short:       window{limit: shortWindowLimit, resetsAt: nextShort(now), next: nextShort},
		daily:       window{limit: dailyWindowLimit, resetsAt: nextDaily(now), next: nextDaily},
		minInterval: minRequestGap,
		now:         time.Now,
	}
}

// Wait blocks until a request can be made without exceeding either window
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range []*window{&r.short, &r.daily} {
		w.roll(r.now())
		if w.remaining() > 0 {
			continue
		}
		if err := r.sleep(ctx, w.resetsAt.Sub(r.now())); err != nil {
			return err
		}
		w.roll(r.now())
	}

	if gap := r.minInterval - r.now().Sub(r.lastRequest); gap > 0 {
		if err := r.sleep(ctx, gap); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = r.now()
	return nil
}

// sleep releases the lock while waiting. The caller holds r.mu.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r.mu.Unlock()
	defer r.mu.Lock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders syncs state with Strava's X-RateLimit-Limit and
// X-RateLimit-Usage headers, each formatted "short,daily"
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.short.usage, r.daily.usage = short, daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit, r.daily.limit = short, daily
	}
}

func parsePair(v string) (int, int, bool) {
	first, second, found := strings.Cut(v, ",")
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Status returns the requests remaining in the short and daily windows
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.remaining(), r.daily.remaining()
}
