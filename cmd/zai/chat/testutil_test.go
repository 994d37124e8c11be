// Test utilities for the chat package: fakes for the backend and identity,
// plus a NewTestModel helper.
package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"zai/internal/conversation"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// FAKE SERVICE
// =============================================================================

type sendCall struct {
	userID  string
	message string
}

// fakeService records calls and returns canned results.
type fakeService struct {
	mu sync.Mutex

	history    []conversation.Message
	historyErr error
	reply      string
	sendErr    error

	fetchCalls []string
	sendCalls  []sendCall
	lastCtx    context.Context
}

func (f *fakeService) FetchHistory(ctx context.Context, userID string) ([]conversation.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls = append(f.fetchCalls, userID)
	f.lastCtx = ctx
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeService) Send(ctx context.Context, userID, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls = append(f.sendCalls, sendCall{userID: userID, message: message})
	f.lastCtx = ctx
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.reply, nil
}

func (f *fakeService) sends() []sendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sendCall, len(f.sendCalls))
	copy(out, f.sendCalls)
	return out
}

func (f *fakeService) fetches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.fetchCalls))
	copy(out, f.fetchCalls)
	return out
}

// =============================================================================
// FAKE IDENTITY
// =============================================================================

type fakeIdentity struct {
	id  string
	err error
}

func (f fakeIdentity) GetOrCreate(context.Context) (string, error) {
	return f.id, f.err
}

// =============================================================================
// TEST MODEL
// =============================================================================

// TestModelOption configures a test model.
type TestModelOption func(*Model)

// NewTestModel creates a sized, ready Model with plain-text rendering.
func NewTestModel(opts ...TestModelOption) Model {
	m := InitChat(Config{
		Theme:        "light",
		RefocusDelay: time.Millisecond,
	})
	m.renderer = nil

	for _, opt := range opts {
		opt(&m)
	}

	if !m.ready {
		m = m.handleResize(tea.WindowSizeMsg{Width: 80, Height: 24})
	}
	return m
}

// WithService sets the chat backend.
func WithService(svc Service) TestModelOption {
	return func(m *Model) {
		m.service = svc
	}
}

// WithIdentity sets the identity resolver.
func WithIdentity(r IdentityResolver) TestModelOption {
	return func(m *Model) {
		m.identity = r
	}
}

// WithUserID marks identity as already resolved.
func WithUserID(id string) TestModelOption {
	return func(m *Model) {
		m.userID = id
	}
}

// WithHistory seeds the conversation as if history had loaded.
func WithHistory(messages ...conversation.Message) TestModelOption {
	return func(m *Model) {
		m.session.ApplyHistory(messages)
	}
}

// WithSize sets the terminal dimensions.
func WithSize(width, height int) TestModelOption {
	return func(m *Model) {
		*m = m.handleResize(tea.WindowSizeMsg{Width: width, Height: height})
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// runCmd executes cmd and any batched children, returning every message produced.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T produced by cmd.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) (T, bool) {
	t.Helper()
	for _, msg := range runCmd(t, cmd) {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// update runs one Update and returns the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return result, cmd
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}
