// Package lifecycle provides the shared stop signal that coordinates
// shutdown across the capture, broadcast, and listener loops.
package lifecycle

import "sync"

// Stop is a settable-once shutdown signal. All loops observe the same
// instance; whichever side trips it first (signal handler, fatal source
// error) wins and the rest observe it on their next iteration.
type Stop struct {
	once sync.Once
	ch   chan struct{}
}

// NewStop creates an untripped stop signal.
func NewStop() *Stop {
	return &Stop{ch: make(chan struct{})}
}

// Trip sets the signal. Safe to call multiple times from any goroutine;
// only the first call has an effect.
func (s *Stop) Trip() {
	s.once.Do(func() { close(s.ch) })
}

// Done returns a channel closed once the signal is tripped, for use in
// select statements.
func (s *Stop) Done() <-chan struct{} {
	return s.ch
}

// Tripped reports whether the signal has been set.
func (s *Stop) Tripped() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
