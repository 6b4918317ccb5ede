// Package location acquires the device position with a bounded wait and a
// result validity window.
package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drujkomax/yoldosh-go/internal/geo"
)

// ErrUnavailable is returned when no fix could be acquired in time.
var ErrUnavailable = errors.New("location: position unavailable")

const (
	// DefaultTimeout bounds a single acquisition attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultValidity is how long a cached fix is served without asking the
	// provider again.
	DefaultValidity = 30 * time.Second
)

// Fix is one acquired position.
type Fix struct {
	Coords   geo.Coords
	Accuracy float64 // meters
	TakenAt  time.Time
}

// Provider produces position fixes (platform geolocation, GPS bridge).
type Provider interface {
	Locate(ctx context.Context) (Fix, error)
}

// Cache wraps a Provider with the bounded wait and the validity window.
// Each Current call surfaces exactly one success or one failure.
type Cache struct {
	provider Provider
	timeout  time.Duration
	validity time.Duration

	mu   sync.Mutex
	last *Fix
}

// NewCache creates a Cache; zero durations take the defaults.
func NewCache(provider Provider, timeout, validity time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Cache{provider: provider, timeout: timeout, validity: validity}
}

// Current returns a position fix, serving the cached one while it is still
// inside the validity window.
func (c *Cache) Current(ctx context.Context) (Fix, error) {
	c.mu.Lock()
	if c.last != nil && time.Since(c.last.TakenAt) < c.validity {
		fix := *c.last
		c.mu.Unlock()
		return fix, nil
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fix, err := c.provider.Locate(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Position acquisition failed")
		return Fix{}, ErrUnavailable
	}
	if fix.TakenAt.IsZero() {
		fix.TakenAt = time.Now()
	}

	c.mu.Lock()
	c.last = &fix
	c.mu.Unlock()
	return fix, nil
}

// Invalidate drops the cached fix.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
}
