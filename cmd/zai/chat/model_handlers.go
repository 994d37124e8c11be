package chat

import (
	"zai/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// handleSubmit starts a send of the current draft. Blank drafts, a send
// already in flight, or an unresolved identity leave everything untouched.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.session.Sending() {
		return m, nil
	}
	if m.userID == "" {
		logging.ChatDebug("Submit ignored: identity not resolved yet")
		return m, nil
	}

	text, ok := m.session.Begin(m.textarea.Value())
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.refreshViewport()

	return m, tea.Batch(
		m.sendCmd(m.userID, text),
		m.spinner.Tick,
	)
}
