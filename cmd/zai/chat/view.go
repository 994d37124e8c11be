// Package chat provides the interactive chat view for zai.
package chat

import (
	"strings"

	"zai/cmd/zai/ui"
	"zai/internal/conversation"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	chatView := m.styles.Content.Render(m.viewport.View())
	inputArea := m.styles.Input.Render(m.textarea.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		chatView,
		inputArea,
		m.renderFooter(),
	)
}

// renderHistory lays out every message as a bubble, user on the right and
// bot on the left, followed by the typing bubble while a send is in flight.
func (m Model) renderHistory() string {
	width := m.viewport.Width
	bubbleWidth := ui.BubbleWidth(width)

	var sb strings.Builder
	for _, msg := range m.session.Log().Messages() {
		sb.WriteString(m.renderBubble(msg, width, bubbleWidth))
		sb.WriteString("\n")
	}
	if m.session.Sending() {
		sb.WriteString(m.renderTyping(width, bubbleWidth))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderBubble(msg conversation.Message, width, bubbleWidth int) string {
	if msg.Role == conversation.RoleUser {
		bubble := m.styles.UserBubble.
			MaxWidth(bubbleWidth).
			Render(wrapText(msg.Text, bubbleWidth-2))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}

	var body string
	if msg.Text == conversation.ErrorReply {
		body = m.styles.Error.Render(msg.Text)
	} else {
		body = m.safeRenderMarkdown(msg.Text)
	}
	bubble := m.styles.BotBubble.
		MaxWidth(bubbleWidth).
		Render(body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble)
}

func (m Model) renderTyping(width, bubbleWidth int) string {
	bubble := m.styles.BotBubble.
		MaxWidth(bubbleWidth).
		Render(m.spinner.View() + " ...")
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble)
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return strings.Trim(rendered, "\n")
		}
	}
	return wrapText(content, m.wordWrap)
}

// wrapText soft-wraps plain text to width, preserving explicit newlines.
func wrapText(text string, width int) string {
	if width < 1 || lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" " + m.title + " ")

	var status string
	if m.session.Sending() {
		status = lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " ", m.styles.Badge.Render("Typing"))
	} else {
		status = m.styles.Success.Render("Ready")
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		m.styles.RenderDivider(m.width),
	)
}

func (m Model) renderFooter() string {
	send := "Enter: send"
	if m.session.Sending() {
		send = "..."
	}
	return m.styles.Footer.Render(m.styles.Muted.Render(send + " | Alt+Enter: newline | PgUp/PgDn: scroll | Ctrl+C: quit"))
}
