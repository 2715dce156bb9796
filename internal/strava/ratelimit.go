package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava allows 100 requests per 15 minutes and 1000 per day by default.
// The response headers carry the real limits, which override these.
const (
	defaultShortLimit = 100
	defaultDailyLimit = 1000
	shortPeriod       = 15 * time.Minute
	minInterval       = 150 * time.Millisecond
)

// window is one quota bucket
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

func (w *window) full() bool { return w.usage >= w.limit }

func (w *window) remaining() int { return w.limit - w.usage }

// RateLimiter paces requests against the short and daily quotas
type RateLimiter struct {
	mu          sync.Mutex
	short       window
	daily       window
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter with Strava's default limits
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	r := &RateLimiter{
		short: window{
			limit: defaultShortLimit,
			next:  func(t time.Time) time.Time { return t.Add(shortPeriod) },
		},
		daily: window{
			limit: defaultDailyLimit,
			next:  func(t time.Time) time.Time { return t.Truncate(24 * time.Hour).Add(24 * time.Hour) },
		},
		minInterval: minInterval,
	}
	r.short.resetsAt = r.short.next(now)
	r.daily.resetsAt = r.daily.next(now)
	return r
}

// Wait blocks until a request can be made without exceeding the quotas.
// The lock is released while sleeping.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range []*window{&r.short, &r.daily} {
		w.roll(time.Now())
		if !w.full() {
			continue
		}
		if err := r.sleep(ctx, time.Until(w.resetsAt)); err != nil {
			return err
		}
		w.usage = 0
		w.resetsAt = w.next(time.Now())
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.usage++
	r.daily.usage++
	r.lastRequest = time.Now()
	return nil
}

// sleep must be called with r.mu held; it returns with r.mu held.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	r.mu.Unlock()
	defer r.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders updates rate limit state from Strava response headers.
// Strava returns X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512".
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
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Status returns the remaining requests in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.remaining(), r.daily.remaining()
}
