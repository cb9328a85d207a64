package chat

import (
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one immutable entry in the conversation log.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Store is the append-only conversation log. Entries are never edited,
// reordered, or removed; insertion order is the only ordering guarantee.
type Store struct {
	mu       sync.Mutex
	turns    []Turn
	onAppend func(Turn)
}

// NewStore creates a log. onAppend, if non-nil, fires after every append so
// the caller can re-render and scroll to the newest entry.
func NewStore(onAppend func(Turn)) *Store {
	return &Store{onAppend: onAppend}
}

func (s *Store) Append(t Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, t)
	s.mu.Unlock()
	if s.onAppend != nil {
		s.onAppend(t)
	}
}

// All returns a copy of the full ordered log.
func (s *Store) All() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}
