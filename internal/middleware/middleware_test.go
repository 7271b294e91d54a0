package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessageSize(t *testing.T) {
	rl := NewRateLimit(1024, 3, 60, 20)

	assert.True(t, rl.ValidateMessageSize(0))
	assert.True(t, rl.ValidateMessageSize(1024))
	assert.False(t, rl.ValidateMessageSize(1025))
}

func TestCanAddPoint(t *testing.T) {
	rl := NewRateLimit(1024, 3, 60, 20)
	assert.True(t, rl.CanAddPoint(2))
	assert.False(t, rl.CanAddPoint(3))

	unlimited := NewRateLimit(1024, 0, 60, 20)
	assert.True(t, unlimited.CanAddPoint(1_000_000))
}

func TestNewLimiterBurst(t *testing.T) {
	rl := NewRateLimit(1024, 0, 1, 2)
	lim := rl.NewLimiter()

	now := time.Now()
	assert.True(t, lim.AllowN(now, 1))
	assert.True(t, lim.AllowN(now, 1))
	assert.False(t, lim.AllowN(now, 1))
}

func TestIPRateLimit(t *testing.T) {
	iprl := NewIPRateLimit()
	clock := time.Unix(1700000000, 0)
	iprl.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		assert.True(t, iprl.Allow("10.0.0.1"), "burst %d", i)
	}
	assert.False(t, iprl.Allow("10.0.0.1"))

	// other addresses have their own budget
	assert.True(t, iprl.Allow("10.0.0.2"))

	// one token refills every 6s
	clock = clock.Add(7 * time.Second)
	assert.True(t, iprl.Allow("10.0.0.1"))
	assert.False(t, iprl.Allow("10.0.0.1"))
}

func TestIPRateLimitCleanup(t *testing.T) {
	iprl := NewIPRateLimit()
	clock := time.Unix(1700000000, 0)
	iprl.now = func() time.Time { return clock }

	iprl.Allow("10.0.0.1")
	clock = clock.Add(30 * time.Minute)
	iprl.Allow("10.0.0.2")

	clock = clock.Add(31 * time.Minute)
	iprl.Cleanup()

	assert.Equal(t, 1, iprl.Len())
}
