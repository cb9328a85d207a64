package tui

import (
	"fmt"
	"strings"
	"sync"

	"mortgagemate/internal/chat"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// ─── Welcome Screen ─────────────────────────────────────────────────────────

func renderWelcome(version, server, profileName string) string {
	titleLine := logoTitleStyle.Render("Mortgage Mate") + " " + versionStyle.Render("v"+version)

	serverDisplay := server
	if len(serverDisplay) > 40 {
		serverDisplay = serverDisplay[:37] + "..."
	}
	infoLine := welcomeInfoLabel.Render(fmt.Sprintf("%s · %s", serverDisplay, profileName))

	return fmt.Sprintf("\n%s\n\n%s\n%s\n", renderHouseArt(), titleLine, infoLine)
}

const houseASCIIArt = `
        ^^^^^^^^
      ^^^^^^^^^^^^
    ^^^^^^^^^^^^^^^^
  ^^^^^^^^^^^^^^^^^^^^
  ****................****
  ****....######......****
  ****....######......****
  ****................****
  ************************
`

func renderHouseArt() string {
	lines := strings.Split(strings.Trim(houseASCIIArt, "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		var out strings.Builder
		for _, r := range line {
			switch r {
			case '^':
				out.WriteString(logoRoofStyle.Render(string(r)))
			case '*', '#', '.':
				out.WriteString(logoWallStyle.Render(string(r)))
			default:
				out.WriteRune(r)
			}
		}
		lines[i] = out.String()
	}
	return strings.Join(lines, "\n")
}

// ─── Transcript ─────────────────────────────────────────────────────────────

// renderTurn prints one committed conversation turn above the input.
func (m model) renderTurn(t chat.Turn) tea.Cmd {
	switch t.Role {
	case chat.RoleUser:
		return tea.Println(userTurnStyle.Render("❯ ") + t.Content)
	case chat.RoleAssistant:
		return tea.Println(renderMarkdown(t.Content))
	default:
		return tea.Println(dimStyle.Render("  " + t.Content))
	}
}

// renderChips lays out suggestions as numbered one-line chips.
func renderChips(suggestions []chat.Suggestion) string {
	var lines []string
	for i, s := range suggestions {
		if i >= 9 {
			break
		}
		lines = append(lines, fmt.Sprintf("  %s %s",
			chipNumberStyle.Render(fmt.Sprintf("[%d]", i+1)),
			chipLabelStyle.Render(s.Label)))
	}
	return strings.Join(lines, "\n")
}

// ─── Markdown ───────────────────────────────────────────────────────────────
//
// Committed assistant turns render through glamour. The word-wrap width
// follows the terminal; the renderer is rebuilt on resize.

var (
	mdMu       sync.Mutex
	mdRenderer *glamour.TermRenderer
	mdWidth    int
)

func setMarkdownWidth(width int) {
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	if wrap > 100 {
		wrap = 100
	}

	mdMu.Lock()
	defer mdMu.Unlock()
	if wrap == mdWidth && mdRenderer != nil {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return
	}
	mdRenderer = r
	mdWidth = wrap
}

func renderMarkdown(text string) string {
	mdMu.Lock()
	r := mdRenderer
	mdMu.Unlock()

	if r == nil {
		return "  " + text
	}
	out, err := r.Render(text)
	if err != nil {
		return "  " + text
	}
	return strings.TrimRight(out, "\n")
}
