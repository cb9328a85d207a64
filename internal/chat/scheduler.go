package chat

import "time"

// Scheduler issues delayed callbacks. It is the substrate for the simulated
// streaming reveal; tests substitute a manual implementation.
type Scheduler interface {
	// After runs fn once d has elapsed and returns a cancel function.
	// Cancel is best-effort: a callback already running is not interrupted.
	After(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewScheduler returns the real time.AfterFunc-backed scheduler.
func NewScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
