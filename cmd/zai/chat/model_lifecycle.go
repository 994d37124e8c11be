package chat

import (
	"context"
	"time"

	"zai/internal/logging"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Shutdown cancels every in-flight command. Results arriving afterwards are
// dropped. Safe to call multiple times.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.shutdownCancel != nil {
			m.shutdownCancel()
		}
		logging.ChatDebug("Chat view shut down")
	})
}

// performShutdown is a value-receiver wrapper for Shutdown() that can be
// called from Update().
func (m Model) performShutdown() {
	modelPtr := &m
	modelPtr.Shutdown()
}

// closed reports whether the view has been torn down.
func (m Model) closed() bool {
	return m.shutdownCtx.Err() != nil
}

// Init starts identity resolution; history follows once it completes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.resolveIdentityCmd(),
	)
}

func (m Model) resolveIdentityCmd() tea.Cmd {
	ctx := m.shutdownCtx
	resolver := m.identity
	return func() tea.Msg {
		if resolver == nil {
			return identityResolvedMsg{}
		}
		id, err := resolver.GetOrCreate(ctx)
		return identityResolvedMsg{userID: id, err: err}
	}
}

func (m Model) fetchHistoryCmd(userID string) tea.Cmd {
	ctx := m.shutdownCtx
	svc := m.service
	return func() tea.Msg {
		if svc == nil {
			return historyLoadedMsg{}
		}
		msgs, err := svc.FetchHistory(ctx, userID)
		return historyLoadedMsg{messages: msgs, err: err}
	}
}

func (m Model) sendCmd(userID, text string) tea.Cmd {
	ctx := m.shutdownCtx
	svc := m.service
	return func() tea.Msg {
		if svc == nil {
			return replyMsg{err: errNoService}
		}
		reply, err := svc.Send(ctx, userID, text)
		return replyMsg{text: reply, err: err}
	}
}

func (m Model) refocusCmd() tea.Cmd {
	return tea.Tick(m.refocusDelay, func(time.Time) tea.Msg {
		return refocusMsg{}
	})
}

// RunInteractiveChat starts the interactive chat session and blocks until it exits.
func RunInteractiveChat(ctx context.Context, cfg Config) error {
	model := InitChat(cfg)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Shutdown()
	} else {
		model.Shutdown()
	}
	return err
}
