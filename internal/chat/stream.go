package chat

import (
	"strings"
	"sync"
	"time"
)

// DefaultStreamInterval is the delay between token reveals.
const DefaultStreamInterval = 60 * time.Millisecond

// Streamer makes a fully-known reply string appear to arrive incrementally.
// It reveals space-delimited tokens one at a time, exposing the growing
// partial text through onReveal; the committed turn is the caller's job, so
// the permanent log always holds the literal reply even if the reveal is
// interrupted.
type Streamer struct {
	mu       sync.Mutex
	sched    Scheduler
	interval time.Duration
	onReveal func(partial string)
	onDone   func()

	tokens  []string
	next    int
	partial string
	active  bool
	cancel  func()
	done    chan struct{}
}

// NewStreamer creates a simulator. onReveal fires with the accumulated
// partial text after each token, and with "" when the reveal finishes or is
// cancelled. onDone fires only on natural completion, after the partial is
// cleared.
func NewStreamer(sched Scheduler, interval time.Duration, onReveal func(string), onDone func()) *Streamer {
	if sched == nil {
		sched = NewScheduler()
	}
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &Streamer{
		sched:    sched,
		interval: interval,
		onReveal: onReveal,
		onDone:   onDone,
	}
}

// Simulate starts revealing full token by token. The returned channel closes
// when the last token has been revealed. Starting a new reveal cancels any
// reveal still in flight. An empty string completes immediately with zero
// reveals.
func (st *Streamer) Simulate(full string) <-chan struct{} {
	st.mu.Lock()
	st.stopLocked()

	done := make(chan struct{})
	st.done = done

	if full == "" {
		st.mu.Unlock()
		if st.onDone != nil {
			st.onDone()
		}
		close(done)
		return done
	}

	st.tokens = strings.Split(full, " ")
	st.next = 0
	st.partial = ""
	st.active = true
	st.cancel = st.sched.After(st.interval, st.step)
	st.mu.Unlock()
	return done
}

// step reveals the next token. It reschedules itself until the final token,
// which clears the partial text and resolves the completion channel in the
// same reaction.
func (st *Streamer) step() {
	st.mu.Lock()
	if !st.active {
		st.mu.Unlock()
		return
	}

	st.partial = strings.Join(st.tokens[:st.next+1], " ")
	st.next++
	last := st.next == len(st.tokens)

	reveal := st.partial
	done := st.done
	if last {
		st.partial = ""
		st.active = false
		st.cancel = nil
	} else {
		st.cancel = st.sched.After(st.interval, st.step)
	}
	st.mu.Unlock()

	if st.onReveal != nil {
		st.onReveal(reveal)
	}
	if last {
		if st.onReveal != nil {
			st.onReveal("")
		}
		if st.onDone != nil {
			st.onDone()
		}
		close(done)
	}
}

// Cancel discards a reveal in flight: the pending timer is stopped, the
// half-revealed partial is dropped, and the completion channel is left
// unresolved. Safe to call at any time.
func (st *Streamer) Cancel() {
	st.mu.Lock()
	wasActive := st.active
	st.stopLocked()
	st.mu.Unlock()
	if wasActive && st.onReveal != nil {
		st.onReveal("")
	}
}

func (st *Streamer) stopLocked() {
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.active = false
	st.partial = ""
	st.tokens = nil
	st.next = 0
}

// Partial returns the caller-visible accumulation of the reveal in flight,
// or "" when no reveal is active.
func (st *Streamer) Partial() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.partial
}

func (st *Streamer) Active() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.active
}
