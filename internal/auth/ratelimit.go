package auth

import (
	"sync"
	"time"
)

// failRecord tracks failed token attempts for a single IP address.
type failRecord struct {
	attempts  int
	firstSeen time.Time
}

// RateLimiter is an in-memory, IP-based limiter for failed token checks.
// Successful requests are never counted; it only slows down token guessing.
type RateLimiter struct {
	mu          sync.Mutex
	ips         map[string]*failRecord
	maxAttempts int
	window      time.Duration
	staleAfter  time.Duration
	now         func() time.Time // for testing
}

// NewRateLimiter creates a limiter that tolerates maxAttempts failures per
// IP within the given window. Stale entries are purged on every call.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		ips:         make(map[string]*failRecord),
		maxAttempts: maxAttempts,
		window:      window,
		staleAfter:  5 * window,
		now:         time.Now,
	}
}

// Allowed reports whether the IP may attempt authentication, and how long
// to wait when it may not.
func (rl *RateLimiter) Allowed(ip string) (allowed bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	rec, ok := rl.ips[ip]
	if !ok {
		return true, 0
	}

	elapsed := now.Sub(rec.firstSeen)
	if elapsed >= rl.window {
		delete(rl.ips, ip)
		return true, 0
	}
	if rec.attempts < rl.maxAttempts {
		return true, 0
	}
	return false, rl.window - elapsed
}

// RecordFailure counts a failed token check against the IP.
func (rl *RateLimiter) RecordFailure(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rec, ok := rl.ips[ip]
	if !ok || now.Sub(rec.firstSeen) >= rl.window {
		rl.ips[ip] = &failRecord{attempts: 1, firstSeen: now}
		return
	}
	rec.attempts++
}

// cleanup removes entries whose window started more than staleAfter ago.
// Must be called with rl.mu held.
func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, rec := range rl.ips {
		if now.Sub(rec.firstSeen) > rl.staleAfter {
			delete(rl.ips, ip)
		}
	}
}
