package chat

import (
	"sync"
	"testing"
	"time"
)

// fakeScheduler collects scheduled callbacks so tests can fire them
// deterministically.
type fakeScheduler struct {
	mu        sync.Mutex
	pending   []*fakeTimer
	scheduled chan struct{}
}

type fakeTimer struct {
	fn      func()
	stopped bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(chan struct{}, 64)}
}

func (f *fakeScheduler) After(d time.Duration, fn func()) func() {
	f.mu.Lock()
	ft := &fakeTimer{fn: fn}
	f.pending = append(f.pending, ft)
	f.mu.Unlock()
	select {
	case f.scheduled <- struct{}{}:
	default:
	}
	return func() {
		f.mu.Lock()
		ft.stopped = true
		f.mu.Unlock()
	}
}

// fire runs the oldest live callback. Returns false when nothing is pending.
func (f *fakeScheduler) fire() bool {
	f.mu.Lock()
	var fn func()
	for len(f.pending) > 0 {
		ft := f.pending[0]
		f.pending = f.pending[1:]
		if !ft.stopped {
			fn = ft.fn
			break
		}
	}
	f.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

func (f *fakeScheduler) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ft := range f.pending {
		if !ft.stopped {
			n++
		}
	}
	return n
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestStreamerRevealsTokens(t *testing.T) {
	sched := newFakeScheduler()
	var reveals []string
	doneCalls := 0

	st := NewStreamer(sched, time.Millisecond, func(p string) {
		reveals = append(reveals, p)
	}, func() {
		doneCalls++
	})

	done := st.Simulate("a b c")

	want := []string{"a", "a b", "a b c"}
	for i := range want {
		if isClosed(done) {
			t.Fatalf("completion resolved before reveal %d", i+1)
		}
		if !sched.fire() {
			t.Fatalf("no scheduled reveal for token %d", i+1)
		}
	}

	// Terminal reveal shows the full text, then clears the partial.
	wantReveals := []string{"a", "a b", "a b c", ""}
	if len(reveals) != len(wantReveals) {
		t.Fatalf("got %d reveals %v, want %v", len(reveals), reveals, wantReveals)
	}
	for i := range wantReveals {
		if reveals[i] != wantReveals[i] {
			t.Errorf("reveal %d = %q, want %q", i, reveals[i], wantReveals[i])
		}
	}

	if !isClosed(done) {
		t.Error("completion channel not resolved after final reveal")
	}
	if doneCalls != 1 {
		t.Errorf("onDone fired %d times, want 1", doneCalls)
	}
	if st.Active() {
		t.Error("Active() = true after completion")
	}
	if st.Partial() != "" {
		t.Errorf("Partial() = %q after completion, want empty", st.Partial())
	}
}

func TestStreamerEmptyInput(t *testing.T) {
	sched := newFakeScheduler()
	var reveals []string
	doneCalls := 0

	st := NewStreamer(sched, time.Millisecond, func(p string) {
		reveals = append(reveals, p)
	}, func() {
		doneCalls++
	})

	done := st.Simulate("")

	if !isClosed(done) {
		t.Fatal("empty input should resolve immediately")
	}
	if len(reveals) != 0 {
		t.Errorf("empty input produced reveals: %v", reveals)
	}
	if doneCalls != 1 {
		t.Errorf("onDone fired %d times, want 1", doneCalls)
	}
	if sched.pendingCount() != 0 {
		t.Errorf("empty input scheduled %d callbacks", sched.pendingCount())
	}
}

func TestStreamerSingleToken(t *testing.T) {
	sched := newFakeScheduler()
	var reveals []string

	st := NewStreamer(sched, time.Millisecond, func(p string) {
		reveals = append(reveals, p)
	}, nil)

	done := st.Simulate("hello")
	sched.fire()

	if !isClosed(done) {
		t.Fatal("completion not resolved")
	}
	if len(reveals) != 2 || reveals[0] != "hello" || reveals[1] != "" {
		t.Errorf("reveals = %v, want [hello \"\"]", reveals)
	}
}

func TestStreamerCancelMidReveal(t *testing.T) {
	sched := newFakeScheduler()
	var reveals []string
	doneCalls := 0

	st := NewStreamer(sched, time.Millisecond, func(p string) {
		reveals = append(reveals, p)
	}, func() {
		doneCalls++
	})

	done := st.Simulate("one two three four")
	sched.fire()
	sched.fire()

	st.Cancel()

	if st.Partial() != "" {
		t.Errorf("Partial() = %q after cancel, want empty", st.Partial())
	}
	if st.Active() {
		t.Error("Active() = true after cancel")
	}

	// No further reveals may happen even if a stale timer fires.
	revealsBefore := len(reveals)
	for sched.fire() {
	}
	if len(reveals) != revealsBefore {
		t.Errorf("reveals continued after cancel: %v", reveals[revealsBefore:])
	}
	if doneCalls != 0 {
		t.Error("onDone fired for a cancelled reveal")
	}
	if isClosed(done) {
		t.Error("completion resolved for a cancelled reveal")
	}
}

func TestStreamerRestartCancelsPrevious(t *testing.T) {
	sched := newFakeScheduler()
	var reveals []string

	st := NewStreamer(sched, time.Millisecond, func(p string) {
		reveals = append(reveals, p)
	}, nil)

	st.Simulate("old reply text")
	sched.fire()

	reveals = nil
	done := st.Simulate("new text")
	for sched.fire() {
	}

	want := []string{"new", "new text", ""}
	if len(reveals) != len(want) {
		t.Fatalf("reveals after restart = %v, want %v", reveals, want)
	}
	for i := range want {
		if reveals[i] != want[i] {
			t.Errorf("reveal %d = %q, want %q", i, reveals[i], want[i])
		}
	}
	if !isClosed(done) {
		t.Error("second reveal did not complete")
	}
}

func TestStreamerSpaceOnlySplit(t *testing.T) {
	// Tokenization is single-space splitting, nothing smarter: newlines and
	// tabs ride along inside tokens.
	sched := newFakeScheduler()
	var last string

	st := NewStreamer(sched, time.Millisecond, func(p string) {
		if p != "" {
			last = p
		}
	}, nil)

	st.Simulate("line1\nline2 end")
	for sched.fire() {
	}

	if last != "line1\nline2 end" {
		t.Errorf("final reveal = %q, want %q", last, "line1\nline2 end")
	}
}
