package chat

import (
	"context"
	"sync"
	"time"

	"zai/cmd/zai/ui"
	"zai/internal/conversation"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const (
	defaultTitle        = "ZAI"
	defaultPlaceholder  = "Type a message..."
	defaultRefocusDelay = 100 * time.Millisecond
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Service is the remote chat backend.
type Service interface {
	FetchHistory(ctx context.Context, userID string) ([]conversation.Message, error)
	Send(ctx context.Context, userID, message string) (string, error)
}

// IdentityResolver returns the installation's user identifier.
type IdentityResolver interface {
	GetOrCreate(ctx context.Context) (string, error)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration for initializing the chat interface.
type Config struct {
	Service  Service
	Identity IdentityResolver

	Title        string
	Theme        string        // light, dark, auto
	RefocusDelay time.Duration // input refocus delay after a reply
	WordWrap     int           // glamour wrap width before the first resize
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view: a single conversation with one backend.
type Model struct {
	// UI Components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	// State
	session *conversation.Session
	userID  string
	width   int
	height  int
	ready   bool
	title   string

	refocusDelay time.Duration
	wordWrap     int

	// Backend
	service  Service
	identity IdentityResolver

	// Lifecycle
	shutdownOnce   *sync.Once
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// =============================================================================
// MESSAGES
// =============================================================================

type (
	// identityResolvedMsg starts the history fetch.
	identityResolvedMsg struct {
		userID string
		err    error
	}

	historyLoadedMsg struct {
		messages []conversation.Message
		err      error
	}

	// replyMsg settles the in-flight send.
	replyMsg struct {
		text string
		err  error
	}

	refocusMsg struct{}
)
