package scanner

import (
	"sync"
	"time"
)

// Cooldown drops repeat reads of the same code within a window. Cameras
// report the same QR many times per second.
type Cooldown struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window: window,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
}

// Allow reports whether code may be submitted now, and if so starts its
// cooldown.
func (c *Cooldown) Allow(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, at := range c.seen {
		if now.Sub(at) >= c.window {
			delete(c.seen, k)
		}
	}
	if _, ok := c.seen[code]; ok {
		return false
	}
	c.seen[code] = now
	return true
}
