package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mortgagemate/internal/api"
	"mortgagemate/internal/borrowing"
	"mortgagemate/internal/chat"
)

// ─── Messages sent from the chat session to Bubble Tea ──────────────────────

type chatTurnMsg struct {
	turn chat.Turn
}

type chatPartialMsg struct {
	text string
}

type chatSuggestionsMsg struct {
	suggestions []chat.Suggestion
}

type chatStateMsg struct {
	loading   bool
	streaming bool
}

type fieldUpdatedMsg struct {
	field string
	value string
	err   error
}

type unknownActionMsg struct {
	kind string
}

// ─── Async command results ──────────────────────────────────────────────────

type estimateResultMsg struct {
	req    api.EstimateRequest
	resp   *api.EstimateResponse
	local  *borrowing.Result
	apiErr error
}

type schemesResultMsg struct {
	schemes []api.GovernmentScheme
	err     error
}

// ─── Event bridge ───────────────────────────────────────────────────────────
//
// Session callbacks fire on the round-trip and reveal goroutines. They
// push messages into a buffered channel; the model keeps one
// waitForChat command outstanding that reads them back on the Bubble
// Tea loop.

func newChatChannel() chan tea.Msg {
	return make(chan tea.Msg, 64)
}

func sessionEvents(ch chan<- tea.Msg) chat.Events {
	return chat.Events{
		OnTurn: func(t chat.Turn) {
			ch <- chatTurnMsg{turn: t}
		},
		OnPartial: func(p string) {
			ch <- chatPartialMsg{text: p}
		},
		OnSuggestions: func(s []chat.Suggestion) {
			ch <- chatSuggestionsMsg{suggestions: s}
		},
		OnState: func(loading, streaming bool) {
			ch <- chatStateMsg{loading: loading, streaming: streaming}
		},
	}
}

// waitForChat reads the next session event from the channel.
func waitForChat(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
