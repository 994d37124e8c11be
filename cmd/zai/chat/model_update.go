package chat

import (
	"errors"

	"zai/cmd/zai/ui"
	"zai/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoService = errors.New("no chat service configured")

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.performShutdown()
			return m, tea.Quit

		case tea.KeyEnter:
			if !msg.Alt {
				return m.handleSubmit()
			}

		case tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

		// Blurred while sending, so keystrokes are ignored by the textarea.
		m.textarea, tiCmd = m.textarea.Update(msg)
		return m, tiCmd

	case tea.MouseMsg:
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case identityResolvedMsg:
		if m.closed() {
			return m, nil
		}
		if msg.err != nil {
			logging.IdentityWarn("Identity resolution failed: %v", msg.err)
			return m, nil
		}
		m.userID = msg.userID
		logging.Chat("Identity resolved, fetching history")
		return m, m.fetchHistoryCmd(msg.userID)

	case historyLoadedMsg:
		if m.closed() {
			return m, nil
		}
		if msg.err != nil {
			logging.APIError("Fetch history failed: %v", msg.err)
			return m, nil
		}
		if m.session.ApplyHistory(msg.messages) {
			m.refreshViewport()
		}
		return m, nil

	case replyMsg:
		if m.closed() {
			return m, nil
		}
		if _, ok := m.session.Settle(msg.text, msg.err); !ok {
			return m, nil
		}
		m.refreshViewport()
		return m, m.refocusCmd()

	case refocusMsg:
		if m.closed() || m.session.Sending() {
			return m, nil
		}
		return m, m.textarea.Focus()

	case spinner.TickMsg:
		if m.session.Sending() {
			var spCmd tea.Cmd
			m.spinner, spCmd = m.spinner.Update(msg)
			m.renderViewport()
			return m, spCmd
		}
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	w, h := ui.ViewportSize(msg.Width, msg.Height)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.textarea.SetWidth(ui.InputWidth(msg.Width))

	wrap := ui.BubbleWidth(w) - 2
	if wrap > 0 && wrap != m.wordWrap {
		m.wordWrap = wrap
		if m.renderer != nil {
			m.renderer = newRenderer(m.styles.Theme.IsDark, wrap)
		}
	}

	m.refreshViewport()
	return m
}

// refreshViewport re-renders the conversation and pins it to the newest line.
func (m *Model) refreshViewport() {
	m.renderViewport()
	m.viewport.GotoBottom()
}

// renderViewport re-renders the conversation, keeping the scroll position.
func (m *Model) renderViewport() {
	m.viewport.SetContent(m.renderHistory())
}
