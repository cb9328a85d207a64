package chat

import "sync"

// Suggestion is a quick-reply chip. Field associates the chip with a form
// attribute; "" means unassociated.
type Suggestion struct {
	Label string
	Field string
}

// Suggestions holds the active chip set. The set is only ever replaced
// wholesale or cleared; there are no incremental add/remove operations.
// Display order is insertion order.
type Suggestions struct {
	mu       sync.Mutex
	items    []Suggestion
	onChange func([]Suggestion)
}

func NewSuggestions(onChange func([]Suggestion)) *Suggestions {
	return &Suggestions{onChange: onChange}
}

// Clear empties the set. Called synchronously at user-submission time so the
// absence of chips during loading is visible to the caller.
func (sg *Suggestions) Clear() {
	sg.Replace(nil)
}

// Replace swaps in a whole new set, never merging with the old one.
func (sg *Suggestions) Replace(items []Suggestion) {
	sg.mu.Lock()
	sg.items = append([]Suggestion(nil), items...)
	snapshot := append([]Suggestion(nil), sg.items...)
	sg.mu.Unlock()
	if sg.onChange != nil {
		sg.onChange(snapshot)
	}
}

// Active returns a copy of the current set in display order.
func (sg *Suggestions) Active() []Suggestion {
	sg.mu.Lock()
	defer sg.mu.Unlock()
	return append([]Suggestion(nil), sg.items...)
}
