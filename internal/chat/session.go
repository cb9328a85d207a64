package chat

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"mortgagemate/internal/api"
)

// FallbackReply is appended as the assistant turn when the reply request
// fails. The underlying error goes to the diagnostics log, never to the
// transcript.
const FallbackReply = "Sorry, there was an error processing your request."

// DefaultGreeting opens every session before any user interaction.
const DefaultGreeting = "Hi, I'm Mortgage Mate! Ask me anything about home loans, " +
	"or just tell me about your situation and I'll fill in your details as we go."

// DefaultSuggestions is the fixed chip set installed at session start.
var DefaultSuggestions = []Suggestion{
	{Label: "How much can I borrow?"},
	{Label: "I'm a first home buyer", Field: "isFirstTimeBuyer"},
	{Label: "What interest rate will I get?", Field: "interestRate"},
	{Label: "What government schemes can I use?"},
}

// Replier is the remote reasoning service boundary.
type Replier interface {
	Reply(message, context string) (*api.ChatReply, error)
}

// Events are the session's outbound notifications. All callbacks fire after
// the corresponding state change is committed; none fire after Close.
type Events struct {
	OnTurn        func(Turn)
	OnPartial     func(string)
	OnSuggestions func([]Suggestion)
	OnState       func(loading, streaming bool)
}

type Config struct {
	Replier     Replier
	UpdateField FieldUpdater

	// OnUnknownAction receives action kinds the core does not interpret.
	OnUnknownAction func(api.Action)

	// Scheduler and StreamInterval tune the simulated reveal. Zero values
	// select the real timer scheduler and the 60ms default cadence.
	Scheduler      Scheduler
	StreamInterval time.Duration

	// Greeting and InitialSuggestions override the fixed session-start
	// state. Empty values select the defaults.
	Greeting           string
	InitialSuggestions []Suggestion

	// SuggestionPrompt derives the text sent to the reply service when a
	// chip is clicked. The displayed turn always uses the bare label; by
	// default the sent text is the bare label too.
	SuggestionPrompt func(Suggestion) string

	Events Events
}

// Session drives the submit/request/stream/suggest/dispatch pipeline.
//
// States: idle -> awaiting-reply (loading) -> streaming -> idle, with a
// direct awaiting-reply -> idle transition on request failure. Submissions
// are rejected while not idle; the session never queues.
type Session struct {
	mu        sync.Mutex
	loading   bool
	streaming bool
	closed    bool

	// pendingReply holds the reply between request resolution and turn
	// commit; the committed turn uses its literal text, not the last
	// reveal state.
	pendingReply *api.ChatReply

	replier    Replier
	prompt     func(Suggestion) string
	events     Events
	store      *Store
	suggestion *Suggestions
	streamer   *Streamer
	dispatcher *Dispatcher
}

func NewSession(cfg Config) *Session {
	s := &Session{
		replier: cfg.Replier,
		prompt:  cfg.SuggestionPrompt,
		events:  cfg.Events,
	}

	s.store = NewStore(func(t Turn) {
		if ev := s.events.OnTurn; ev != nil && !s.isClosed() {
			ev(t)
		}
	})
	s.suggestion = NewSuggestions(func(items []Suggestion) {
		if ev := s.events.OnSuggestions; ev != nil && !s.isClosed() {
			ev(items)
		}
	})
	s.streamer = NewStreamer(cfg.Scheduler, cfg.StreamInterval, func(partial string) {
		if ev := s.events.OnPartial; ev != nil && !s.isClosed() {
			ev(partial)
		}
	}, s.finishStream)
	s.dispatcher = NewDispatcher(cfg.UpdateField, s.suggestion, cfg.OnUnknownAction)

	greeting := cfg.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	s.store.Append(Turn{Role: RoleAssistant, Content: greeting, Timestamp: time.Now()})

	initial := cfg.InitialSuggestions
	if initial == nil {
		initial = DefaultSuggestions
	}
	s.suggestion.Replace(initial)

	return s
}

// Submit accepts one user message plus a fresh form-context snapshot. It
// returns false without any state change when the trimmed message is empty
// or a previous submission is still in flight.
func (s *Session) Submit(message, formContext string) bool {
	message = strings.TrimSpace(message)
	if message == "" {
		return false
	}
	return s.submit(message, message, formContext)
}

// SubmitSuggestion is a chip click: the displayed turn uses the chip label
// while the sent text may differ per Config.SuggestionPrompt.
func (s *Session) SubmitSuggestion(sug Suggestion, formContext string) bool {
	label := strings.TrimSpace(sug.Label)
	if label == "" {
		return false
	}
	sent := label
	if s.prompt != nil {
		if p := strings.TrimSpace(s.prompt(sug)); p != "" {
			sent = p
		}
	}
	return s.submit(label, sent, formContext)
}

func (s *Session) submit(display, sent, formContext string) bool {
	s.mu.Lock()
	if s.closed || s.loading || s.streaming {
		s.mu.Unlock()
		return false
	}
	s.loading = true
	s.mu.Unlock()

	s.store.Append(Turn{Role: RoleUser, Content: display, Timestamp: time.Now()})
	s.suggestion.Clear()
	s.notifyState()

	go s.roundTrip(sent, formContext)
	return true
}

// roundTrip performs the only true asynchronous wait: the outbound request.
func (s *Session) roundTrip(message, formContext string) {
	reply, err := s.replier.Reply(message, formContext)

	s.mu.Lock()
	if s.closed {
		// A response arriving after teardown is a no-op.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.loading = false
		s.mu.Unlock()
		slog.Error("reply request failed", "error", err)
		s.store.Append(Turn{Role: RoleAssistant, Content: FallbackReply, Timestamp: time.Now()})
		s.notifyState()
		return
	}
	s.loading = false
	s.streaming = true
	s.pendingReply = reply
	s.mu.Unlock()

	s.notifyState()
	s.streamer.Simulate(reply.Response)
}

// finishStream runs when the reveal completes: commit the literal reply as
// the permanent turn first, then dispatch its actions so any host re-render
// already includes the new message. The streaming flag stays up until the
// turn is in the log, so a racing Submit cannot slot a user turn ahead of
// the pending assistant commit.
func (s *Session) finishStream() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	reply := s.pendingReply
	s.pendingReply = nil
	if reply == nil {
		s.streaming = false
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.store.Append(Turn{Role: RoleAssistant, Content: reply.Response, Timestamp: time.Now()})

	s.mu.Lock()
	s.streaming = false
	s.mu.Unlock()

	s.notifyState()
	s.dispatcher.Dispatch(reply.Actions)
}

// Close tears the session down: pending reveals are cancelled and no state
// mutation or notification happens afterwards. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.loading = false
	s.streaming = false
	s.pendingReply = nil
	s.mu.Unlock()

	s.streamer.Cancel()
}

func (s *Session) notifyState() {
	s.mu.Lock()
	loading, streaming, closed := s.loading, s.streaming, s.closed
	s.mu.Unlock()
	if ev := s.events.OnState; ev != nil && !closed {
		ev(loading, streaming)
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Turns returns the committed conversation log.
func (s *Session) Turns() []Turn { return s.store.All() }

// Partial returns the in-progress reveal text, "" when idle.
func (s *Session) Partial() string { return s.streamer.Partial() }

// ActiveSuggestions returns the current chip set.
func (s *Session) ActiveSuggestions() []Suggestion { return s.suggestion.Active() }

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}
