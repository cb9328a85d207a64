package tui

import (
	"fmt"
	"strings"

	"mortgagemate/internal/borrowing"
	"mortgagemate/internal/chat"
	"mortgagemate/internal/config"
	"mortgagemate/internal/display"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Input dispatcher ───────────────────────────────────────────────────────

func (m model) dispatchInput(input string) (tea.Model, tea.Cmd) {
	if input == "?" {
		return m.cmdHelp()
	}
	if strings.HasPrefix(input, "/") {
		return m.dispatchCommand(input)
	}
	return m.submitChat(input)
}

func (m model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/help", "/h":
		return m.cmdHelp()
	case "/estimate":
		return m.cmdEstimate()
	case "/form":
		return m.cmdForm()
	case "/schemes":
		return m.cmdSchemes()
	case "/config":
		return m.cmdConfig()
	case "/clear":
		return m.cmdClear()
	case "/quit", "/exit", "/q":
		m.session.Close()
		return m, tea.Quit
	default:
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Unknown command: %s (type /help)", cmd)))
	}
}

// ─── Chat ───────────────────────────────────────────────────────────────────

func (m model) submitChat(text string) (tea.Model, tea.Cmd) {
	if !m.session.Submit(text, m.form.Context()) {
		return m, tea.Println(warnMsgStyle.Render("  ! Still working on the previous message."))
	}
	m.mode = modeBusy
	return m, nil
}

func (m model) submitSuggestion(sug chat.Suggestion) (tea.Model, tea.Cmd) {
	if !m.session.SubmitSuggestion(sug, m.form.Context()) {
		return m, tea.Println(warnMsgStyle.Render("  ! Still working on the previous message."))
	}
	m.mode = modeBusy
	return m, nil
}

// ─── /help ──────────────────────────────────────────────────────────────────

func (m model) cmdHelp() (tea.Model, tea.Cmd) {
	pad := func(s string, w int) string {
		for len(s) < w {
			s += " "
		}
		return s
	}

	lines := []tea.Cmd{
		tea.Println(""),
		tea.Println(dimStyle.Render("  Shortcuts:")),
		tea.Println(""),
		tea.Println("  " + pad(hintKeyStyle.Render("/estimate"), 26) + dimStyle.Render("Estimate your borrowing power")),
		tea.Println("  " + pad(hintKeyStyle.Render("/form"), 26) + dimStyle.Render("Show the details gathered so far")),
		tea.Println("  " + pad(hintKeyStyle.Render("/schemes"), 26) + dimStyle.Render("Government schemes you may qualify for")),
		tea.Println("  " + pad(hintKeyStyle.Render("/config"), 26) + dimStyle.Render("Show current configuration")),
		tea.Println("  " + pad(hintKeyStyle.Render("/clear"), 26) + dimStyle.Render("Reset the conversation and form")),
		tea.Println("  " + pad(hintKeyStyle.Render("/quit"), 26) + dimStyle.Render("Exit Mortgage Mate")),
		tea.Println("  " + pad(hintKeyStyle.Render("1-9"), 26) + dimStyle.Render("Pick a suggestion chip")),
		tea.Println(""),
		tea.Println(dimStyle.Render("  Or just tell me about your situation and I'll fill the form in.")),
		tea.Println(""),
	}
	return m, tea.Sequence(lines...)
}

// ─── /estimate ──────────────────────────────────────────────────────────────

func (m model) cmdEstimate() (tea.Model, tea.Cmd) {
	if missing := m.form.Missing(); len(missing) > 0 {
		return m, tea.Sequence(
			tea.Println(warnMsgStyle.Render("  ! I still need a few details before estimating:")),
			tea.Println(dimStyle.Render("    "+strings.Join(missing, ", "))),
			tea.Println(dimStyle.Render("    Tell me in chat, e.g. \"I earn 7000 a month\".")),
		)
	}

	req, err := m.form.EstimateRequest()
	if err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", err)))
	}

	client := m.client
	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Estimating your borrowing power...")),
		func() tea.Msg {
			resp, apiErr := client.Estimate(req)
			if apiErr == nil {
				return estimateResultMsg{req: req, resp: resp}
			}
			// Server unreachable: run the same model locally.
			local, localErr := borrowing.Assess(req)
			if localErr != nil {
				return estimateResultMsg{req: req, apiErr: localErr}
			}
			return estimateResultMsg{req: req, local: &local, apiErr: apiErr}
		},
	)
}

// handleEstimateResult only prints. The result message comes from the
// command's own tea.Cmd, not from the chat channel, so no reader is
// re-armed here: the single outstanding waitForChat stays with the
// chat-event cases.
func (m model) handleEstimateResult(msg estimateResultMsg) (tea.Model, tea.Cmd) {
	return m, tea.Sequence(estimateResultCmds(msg)...)
}

func estimateResultCmds(msg estimateResultMsg) []tea.Cmd {
	if msg.resp == nil && msg.local == nil {
		return []tea.Cmd{
			tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Estimate failed: %v", msg.apiErr))),
		}
	}

	var cmds []tea.Cmd
	cmds = append(cmds, tea.Println(""))

	var estimate, repayment float64
	if msg.resp != nil {
		estimate = msg.resp.Estimate
		repayment = msg.resp.LoanRepayment
	} else {
		estimate = msg.local.BorrowingPower
		repayment = msg.local.MonthlyRepayment
		cmds = append(cmds, tea.Println(dimStyle.Render("  (server unreachable, computed locally)")))
	}

	cmds = append(cmds,
		tea.Println(successMsgStyle.Render(fmt.Sprintf("  ✓ You could borrow around %s", display.Money(estimate)))),
		tea.Println(dimStyle.Render(fmt.Sprintf("    Repayments about %s/month over %d years at %s",
			display.Money(repayment), msg.req.LoanTerm, display.Percent(msg.req.InterestRate)))),
	)
	if msg.local != nil {
		cmds = append(cmds,
			tea.Println(dimStyle.Render(fmt.Sprintf("    Income %s/yr after tax %s, expenses %s/yr",
				display.Money(msg.local.TotalIncome),
				display.Money(msg.local.IncomeAfterTax),
				display.Money(msg.local.TotalExpenses)))),
		)
	}
	if msg.resp != nil && msg.resp.Summary != "" {
		cmds = append(cmds, tea.Println(dimStyle.Render("    "+msg.resp.Summary)))
	}
	cmds = append(cmds, tea.Println(""))
	return cmds
}

// ─── /form ──────────────────────────────────────────────────────────────────

func (m model) cmdForm() (tea.Model, tea.Cmd) {
	entries := m.form.Snapshot()
	if len(entries) == 0 {
		return m, tea.Println(dimStyle.Render("  No details yet. Tell me about your situation."))
	}

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  Your details:")),
	)
	for _, e := range entries {
		label := e.Label
		for len(label) < 34 {
			label += " "
		}
		cmds = append(cmds, tea.Println(fmt.Sprintf("    %s %s", dimStyle.Render(label), e.Value)))
	}
	cmds = append(cmds, tea.Println(""))
	return m, tea.Sequence(cmds...)
}

// ─── /schemes ───────────────────────────────────────────────────────────────

func (m model) cmdSchemes() (tea.Model, tea.Cmd) {
	client := m.client
	firstTimeBuyer := m.form.Bool("isFirstTimeBuyer")
	loanPurpose := m.form.Value("loanPurpose")

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Checking government schemes...")),
		func() tea.Msg {
			schemes, err := client.Schemes(firstTimeBuyer, loanPurpose)
			return schemesResultMsg{schemes: schemes, err: err}
		},
	)
}

// handleSchemesResult only prints, same as handleEstimateResult: the
// message is not a chat-channel event, so no waitForChat re-arm.
func (m model) handleSchemesResult(msg schemesResultMsg) (tea.Model, tea.Cmd) {
	return m, tea.Sequence(schemesResultCmds(msg)...)
}

func schemesResultCmds(msg schemesResultMsg) []tea.Cmd {
	if msg.err != nil {
		return []tea.Cmd{
			tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Could not load schemes: %v", msg.err))),
		}
	}
	if len(msg.schemes) == 0 {
		return []tea.Cmd{
			tea.Println(warnMsgStyle.Render("  ! No matching schemes found.")),
		}
	}

	var cmds []tea.Cmd
	cmds = append(cmds, tea.Println(""))
	for _, s := range msg.schemes {
		cmds = append(cmds,
			tea.Println(schemeNameStyle.Render("  "+s.Name)),
			tea.Println(dimStyle.Render("    "+s.Offer)),
		)
		if s.EligibilityDescription != "" {
			cmds = append(cmds, tea.Println(dimStyle.Render("    "+s.EligibilityDescription)))
		}
		for _, req := range s.EligibilityRequirements {
			cmds = append(cmds, tea.Println(fmt.Sprintf("    %s %s", display.RequirementLabel(req.Met), req.Text)))
		}
		cmds = append(cmds, tea.Println(""))
	}
	return cmds
}

// ─── /config ────────────────────────────────────────────────────────────────

func (m model) cmdConfig() (tea.Model, tea.Cmd) {
	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(dimStyle.Render("  Configuration:")),
		tea.Println(fmt.Sprintf("    Profile:         %s", config.ProfileName(m.profile))),
		tea.Println(fmt.Sprintf("    Server:          %s", m.cfg.Server)),
		tea.Println(fmt.Sprintf("    Stream interval: %s", m.cfg.StreamInterval())),
		tea.Println(fmt.Sprintf("    Log file:        %s", m.cfg.LogPath())),
		tea.Println(""),
	)
}

// ─── /clear ─────────────────────────────────────────────────────────────────

func (m model) cmdClear() (tea.Model, tea.Cmd) {
	m.form.Clear()
	m.session.Close()

	fresh := initialModel(m.version, m.profile)
	fresh.ready = true
	fresh.width = m.width
	fresh.height = m.height
	fresh.input.Width = m.width - 6

	return fresh, tea.Batch(
		tea.ClearScreen,
		tea.Println(renderWelcome(fresh.version, fresh.cfg.Server, config.ProfileName(fresh.profile))),
		fresh.spinner.Tick,
		waitForChat(fresh.chatCh),
	)
}
