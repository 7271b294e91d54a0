package middleware

import (
	"golang.org/x/time/rate"
)

// configuration for rate limiting
type RateLimit struct {
	MaxMessageSize    int
	MaxStrokePoints   int
	MessagesPerSecond float64
	BurstSize         int
}

// NewRateLimit: creates a new RateLimit configuration
func NewRateLimit(maxMessageSize, maxStrokePoints int, messagesPerSecond float64, burstSize int) *RateLimit {
	return &RateLimit{
		MaxMessageSize:    maxMessageSize,
		MaxStrokePoints:   maxStrokePoints,
		MessagesPerSecond: messagesPerSecond,
		BurstSize:         burstSize,
	}
}

// ValidateMessageSize: checks if a message is within the size limit
func (rl *RateLimit) ValidateMessageSize(msgSize int) bool {
	return msgSize <= rl.MaxMessageSize
}

// CanAddPoint: checks if a stroke holding n points may grow
func (rl *RateLimit) CanAddPoint(n int) bool {
	return rl.MaxStrokePoints <= 0 || n < rl.MaxStrokePoints
}

// NewLimiter: per-connection message limiter
func (rl *RateLimit) NewLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rl.MessagesPerSecond), rl.BurstSize)
}
