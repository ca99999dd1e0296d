package clock

import "time"

// Clock supplies the current time. It is injected everywhere timestamps are
// produced so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by time.Now.
func System() Clock { return systemClock{} }

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) *FixedClock { return &FixedClock{t: t} }

// FixedClock reports a settable instant, for deterministic tests.
type FixedClock struct {
	t time.Time
}

func (c *FixedClock) Now() time.Time { return c.t }

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) { c.t = t }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
