package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiterEntry: tracks a rate limiter and its last use time
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimit: limits how often one address may open a draw stream
type IPRateLimit struct {
	limiters map[string]*ipLimiterEntry
	every    time.Duration
	burst    int
	idle     time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// NewIPRateLimit: 10 connections per minute per IP, burst of 5
func NewIPRateLimit() *IPRateLimit {
	return &IPRateLimit{
		limiters: make(map[string]*ipLimiterEntry),
		every:    6 * time.Second,
		burst:    5,
		idle:     1 * time.Hour,
		now:      time.Now,
	}
}

// Allow: checks if an IP is allowed to open another connection
func (iprl *IPRateLimit) Allow(ip string) bool {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	now := iprl.now()
	entry, exists := iprl.limiters[ip]
	if !exists {
		entry = &ipLimiterEntry{
			limiter: rate.NewLimiter(rate.Every(iprl.every), iprl.burst),
		}
		iprl.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Cleanup: removes IP limiters that haven't been used recently
func (iprl *IPRateLimit) Cleanup() {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	now := iprl.now()
	for ip, entry := range iprl.limiters {
		if now.Sub(entry.lastSeen) > iprl.idle {
			delete(iprl.limiters, ip)
		}
	}
}

// Len: number of tracked addresses
func (iprl *IPRateLimit) Len() int {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	return len(iprl.limiters)
}
