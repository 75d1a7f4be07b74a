package ltime

import "time"

// Ticker paces a periodic loop, such as the client's suite progress polling.
// Callers own the ticker and must Close it when the loop ends.
type Ticker interface {
	Channel() <-chan time.Time
	Close()
}

// WallTicker ticks on wall-clock time.
type WallTicker struct {
	ticker *time.Ticker
}

func (w *WallTicker) Channel() <-chan time.Time {
	return w.ticker.C
}

func (w *WallTicker) Close() {
	w.ticker.Stop()
}

func NewWallTicker(duration time.Duration) *WallTicker {
	return &WallTicker{time.NewTicker(duration)}
}

var _ Ticker = &WallTicker{}

// TestingTicker ticks as fast as the receiver drains it, so polling loops
// under test finish without waiting out real intervals.
type TestingTicker struct {
	c      chan time.Time
	closed bool
}

func NewTestingTicker() *TestingTicker {
	ret := &TestingTicker{
		c: make(chan time.Time),
	}

	go func() {
		for !ret.closed {
			ret.c <- time.Now()
		}
	}()

	return ret
}

func (t *TestingTicker) Channel() <-chan time.Time {
	return t.c
}

func (t *TestingTicker) Close() {
	t.closed = true
	// Drain the goroutine
	select {
	case <-t.c:
	default:
	}
}

var _ Ticker = &TestingTicker{}
