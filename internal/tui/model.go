package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"mortgagemate/internal/api"
	"mortgagemate/internal/chat"
	"mortgagemate/internal/config"
	"mortgagemate/internal/form"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ─── App mode ───────────────────────────────────────────────────────────────

type appMode int

const (
	modeIdle appMode = iota
	modeBusy
)

// ─── Slash command registry ─────────────────────────────────────────────────

type slashCmd struct {
	name string
	desc string
}

var slashCommands = []slashCmd{
	{"/clear", "Reset the conversation and form"},
	{"/config", "Show current configuration"},
	{"/estimate", "Estimate your borrowing power"},
	{"/form", "Show the details gathered so far"},
	{"/help", "Show all commands"},
	{"/quit", "Exit Mortgage Mate"},
	{"/schemes", "Government schemes you may qualify for"},
}

// ─── Model ──────────────────────────────────────────────────────────────────

type model struct {
	width  int
	height int

	// Bubble Tea components
	input   textinput.Model
	spinner spinner.Model

	// App state
	mode    appMode
	cfg     *config.Config
	client  api.MortgageAPI
	session *chat.Session
	form    *form.Form
	chatCh  chan tea.Msg
	version string
	profile string

	// Streaming state mirrored from the session
	partial     string
	suggestions []chat.Suggestion

	// UI state
	ready        bool
	cmdMenuIdx   int
	cmdMenuOpen  bool
	lastInputVal string

	// Command history
	history      []string
	historyIdx   int
	historySaved string
}

func initialModel(version, profile string) model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your home loan or type /help..."
	ti.Focus()
	ti.CharLimit = 4096
	ti.Prompt = "❯ "
	ti.PromptStyle = promptSymbol
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(colorTeal)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorTeal)

	cfg, err := config.Load(profile)
	if err != nil {
		cfg = &config.Config{Server: config.DefaultServer, Profile: profile}
	}

	client := api.NewClient(cfg)
	f := form.New()
	ch := newChatChannel()

	session := chat.NewSession(chat.Config{
		Replier:        client,
		Scheduler:      chat.NewScheduler(),
		StreamInterval: cfg.StreamInterval(),
		UpdateField: func(field string, value any, kind chat.InputKind) {
			err := f.Apply(field, value, kind)
			if err != nil {
				slog.Warn("field update rejected", "field", field, "error", err)
			}
			ch <- fieldUpdatedMsg{field: field, value: fmt.Sprintf("%v", value), err: err}
		},
		OnUnknownAction: func(a api.Action) {
			slog.Info("unknown action forwarded", "type", a.Type)
			ch <- unknownActionMsg{kind: a.Type}
		},
		Events: sessionEvents(ch),
	})

	return model{
		input:      ti,
		spinner:    sp,
		version:    version,
		profile:    profile,
		cfg:        cfg,
		client:     client,
		session:    session,
		form:       f,
		chatCh:     ch,
		mode:       modeIdle,
		history:    make([]string, 0),
		historyIdx: -1,
	}
}

// ─── Init ───────────────────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForChat(m.chatCh),
	)
}

// ─── Update ─────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 6
		setMarkdownWidth(m.width)

		if !m.ready {
			m.ready = true
			welcome := renderWelcome(m.version, m.cfg.Server, config.ProfileName(m.profile))
			cmds = append(cmds, tea.Println(welcome))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.session.Close()
			return m, tea.Quit

		case tea.KeyEsc:
			if m.cmdMenuOpen {
				m.cmdMenuOpen = false
				m.cmdMenuIdx = 0
				return m, nil
			}

		case tea.KeyUp:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx--
						if m.cmdMenuIdx < 0 {
							m.cmdMenuIdx = len(matches) - 1
						}
						return m, nil
					}
				} else if len(m.history) > 0 {
					if m.historyIdx == -1 {
						m.historySaved = m.input.Value()
						m.historyIdx = len(m.history) - 1
					} else {
						m.historyIdx--
						if m.historyIdx < 0 {
							m.historyIdx = 0
						}
					}
					m.input.SetValue(m.history[m.historyIdx])
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyDown:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx++
						if m.cmdMenuIdx >= len(matches) {
							m.cmdMenuIdx = 0
						}
						return m, nil
					}
				} else if m.historyIdx != -1 {
					m.historyIdx++
					if m.historyIdx >= len(m.history) {
						m.historyIdx = -1
						m.input.SetValue(m.historySaved)
						m.historySaved = ""
					} else {
						m.input.SetValue(m.history[m.historyIdx])
					}
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyTab:
			if m.mode == modeIdle && m.cmdMenuOpen {
				matches := matchCommands(m.input.Value())
				if len(matches) > 0 {
					idx := m.cmdMenuIdx
					if idx < 0 || idx >= len(matches) {
						idx = 0
					}
					m.input.SetValue(matches[idx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
				}
				return m, nil
			}

		case tea.KeyRunes:
			// A bare digit picks a suggestion chip.
			if m.mode == modeIdle && m.input.Value() == "" && len(msg.Runes) == 1 {
				r := msg.Runes[0]
				if r >= '1' && r <= '9' {
					idx := int(r - '1')
					if idx < len(m.suggestions) {
						return m.submitSuggestion(m.suggestions[idx])
					}
				}
			}

		case tea.KeyEnter:
			if m.mode == modeIdle && m.cmdMenuOpen && m.cmdMenuIdx >= 0 {
				matches := matchCommands(m.input.Value())
				if m.cmdMenuIdx < len(matches) {
					m.input.SetValue(matches[m.cmdMenuIdx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
					return m, nil
				}
			}

			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}

			if len(m.history) == 0 || m.history[len(m.history)-1] != value {
				m.history = append(m.history, value)
				if len(m.history) > 1000 {
					m.history = m.history[len(m.history)-1000:]
				}
			}
			m.historyIdx = -1
			m.historySaved = ""

			m.input.SetValue("")
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0

			return m.dispatchInput(value)
		}

	// ── Chat session events ───────────────────────────────────────────
	case chatTurnMsg:
		cmds = append(cmds, m.renderTurn(msg.turn), waitForChat(m.chatCh))
		return m, tea.Batch(cmds...)

	case chatPartialMsg:
		m.partial = msg.text
		return m, waitForChat(m.chatCh)

	case chatSuggestionsMsg:
		m.suggestions = msg.suggestions
		return m, waitForChat(m.chatCh)

	case chatStateMsg:
		if msg.loading || msg.streaming {
			m.mode = modeBusy
		} else {
			m.mode = modeIdle
			m.partial = ""
		}
		return m, waitForChat(m.chatCh)

	case fieldUpdatedMsg:
		cmds = append(cmds, waitForChat(m.chatCh))
		if msg.err != nil {
			cmds = append(cmds, tea.Println(warnMsgStyle.Render(
				fmt.Sprintf("  ! Could not update %s: %v", msg.field, msg.err))))
		} else {
			cmds = append(cmds, tea.Println(dimStyle.Render(
				fmt.Sprintf("  ✎ %s = %s", msg.field, msg.value))))
		}
		return m, tea.Batch(cmds...)

	case unknownActionMsg:
		cmds = append(cmds,
			waitForChat(m.chatCh),
			tea.Println(dimStyle.Render(fmt.Sprintf("  ⋯ unsupported action %q ignored", msg.kind))),
		)
		return m, tea.Batch(cmds...)

	// ── Async results ─────────────────────────────────────────────────
	case estimateResultMsg:
		return m.handleEstimateResult(msg)

	case schemesResultMsg:
		return m.handleSchemesResult(msg)
	}

	// Update sub-components
	var cmd tea.Cmd

	if m.mode != modeBusy {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	newVal := m.input.Value()
	if newVal != m.lastInputVal {
		m.lastInputVal = newVal
		if m.historyIdx != -1 {
			if m.historyIdx < len(m.history) && m.history[m.historyIdx] != newVal {
				m.historyIdx = -1
				m.historySaved = ""
			}
		}
		if strings.HasPrefix(newVal, "/") {
			m.cmdMenuOpen = true
			m.cmdMenuIdx = 0
		} else {
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0
		}
	}

	return m, tea.Batch(cmds...)
}

// ─── View ───────────────────────────────────────────────────────────────────
//
// Inline mode: View() only shows the input prompt + hints. Committed
// turns are printed above via tea.Println; the in-progress reply text
// lives here until it commits.

func (m model) View() string {
	if !m.ready {
		return ""
	}

	var s strings.Builder

	if m.mode == modeBusy {
		if m.partial != "" {
			s.WriteString("  " + m.partial + "\n")
		}
		s.WriteString(m.spinner.View() + " " + statusStyle.Render("Thinking..."))
	} else {
		s.WriteString(m.input.View())
	}
	s.WriteString("\n")

	sepWidth := min(m.width, 80)
	if sepWidth < 20 {
		sepWidth = 20
	}
	s.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	s.WriteString("\n")

	if m.mode == modeIdle && len(m.suggestions) > 0 && !m.cmdMenuOpen {
		s.WriteString(renderChips(m.suggestions))
		s.WriteString("\n")
	}

	s.WriteString(m.renderHints())

	return s.String()
}

// ─── Hint bar ───────────────────────────────────────────────────────────────

func (m model) renderHints() string {
	if m.mode == modeBusy {
		return hintBarStyle.Render("  Ctrl+C quit")
	}

	if m.cmdMenuOpen {
		matches := matchCommands(m.input.Value())
		if len(matches) > 0 {
			return m.renderCommandMenu(matches)
		}
	}

	if len(m.suggestions) > 0 {
		return hintBarStyle.Render("  1-9 pick a suggestion   ? for help")
	}
	return hintBarStyle.Render("  ? for help")
}

func (m model) renderCommandMenu(matches []slashCmd) string {
	maxLen := 0
	for _, c := range matches {
		if len(c.name) > maxLen {
			maxLen = len(c.name)
		}
	}

	var lines []string
	for i, c := range matches {
		padded := c.name
		for len(padded) < maxLen {
			padded += " "
		}

		var line string
		if i == m.cmdMenuIdx {
			line = "  " + cmdSelectedNameStyle.Render(padded) + "  " + cmdSelectedDescStyle.Render(c.desc)
		} else {
			line = "  " + cmdNameStyle.Render(padded) + "  " + cmdDescStyle.Render(c.desc)
		}
		lines = append(lines, line)
	}

	lines = append(lines, hintBarStyle.Render("  ↑↓ navigate  Tab/Enter select"))

	return strings.Join(lines, "\n")
}

// matchCommands returns all slash commands matching a prefix.
func matchCommands(prefix string) []slashCmd {
	prefix = strings.ToLower(prefix)
	if prefix == "/" {
		return slashCommands
	}
	var matches []slashCmd
	for _, c := range slashCommands {
		if strings.HasPrefix(c.name, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
