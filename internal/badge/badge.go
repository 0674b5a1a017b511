// Package badge runs the countdown that shows how much whitelist time the
// active tab has left.
package badge

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/ppiankov/intentgate/internal/hostkey"
)

// DefaultInterval is the countdown refresh period.
const DefaultInterval = time.Second

// TabSource reports the URL of the active tab, or "" when there is none.
type TabSource interface {
	ActiveURL() string
}

// Remaining reports the whitelist time left for a domain.
type Remaining interface {
	Remaining(ctx context.Context, domain string, now time.Time) (time.Duration, error)
}

// Painter displays badge text. The empty string clears the badge.
type Painter interface {
	Paint(text string)
}

// Text formats remaining access time for the badge: whole seconds up to a
// minute ("42s"), rounded minutes beyond ("5m"), nothing once expired.
func Text(remaining time.Duration) string {
	secs := math.Round(float64(remaining.Milliseconds()) / 1000)
	if secs <= 0 {
		return ""
	}
	if secs > 60 {
		return strconv.Itoa(int(math.Round(secs/60))) + "m"
	}
	return strconv.Itoa(int(secs)) + "s"
}

// Countdown repaints the badge on a fixed interval while filtering is on.
type Countdown struct {
	tabs     TabSource
	wl       Remaining
	paint    Painter
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Countdown) { c.now = now }
}

// WithLogger sets the logger for lookup failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Countdown) { c.logger = l }
}

// NewCountdown creates a stopped countdown.
func NewCountdown(tabs TabSource, wl Remaining, paint Painter, opts ...Option) *Countdown {
	c := &Countdown{
		tabs:     tabs,
		wl:       wl,
		paint:    paint,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start launches the refresh loop. Calling Start on a running countdown is
// a no-op, so toggling filtering on twice never leaves two loops.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				c.Tick(loopCtx)
			}
		}
	}()
}

// Stop cancels the loop, waits for it to exit and clears the badge.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	c.paint.Paint("")
}

// Running reports whether the loop is active.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Tick repaints once for the current active tab.
func (c *Countdown) Tick(ctx context.Context) {
	url := c.tabs.ActiveURL()
	domain := hostkey.Canonical(url)
	if domain == "" {
		c.paint.Paint("")
		return
	}
	rem, err := c.wl.Remaining(ctx, domain, c.now())
	if err != nil {
		c.logger.Debug("badge lookup failed", "domain", domain, "error", err)
		c.paint.Paint("")
		return
	}
	c.paint.Paint(Text(rem))
}
