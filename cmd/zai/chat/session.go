package chat

import (
	"context"
	"strings"
	"sync"

	"zai/cmd/zai/ui"
	"zai/internal/conversation"
	"zai/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// InitChat builds the chat model from cfg.
func InitChat(cfg Config) Model {
	styles := ui.NewStyles(ui.ThemeFor(cfg.Theme))

	ti := textarea.New()
	ti.Placeholder = defaultPlaceholder
	ti.Focus()
	ti.CharLimit = 4096
	ti.ShowLineNumbers = false
	ti.SetHeight(ui.InputHeight)
	ti.Prompt = "┃ "
	ti.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ti.FocusedStyle.Prompt = styles.Prompt
	ti.FocusedStyle.Text = styles.UserInput
	ti.FocusedStyle.CursorLine = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	wrap := cfg.WordWrap
	if wrap <= 0 {
		wrap = 80
	}

	title := cfg.Title
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}

	delay := cfg.RefocusDelay
	if delay <= 0 {
		delay = defaultRefocusDelay
	}

	ctx, cancel := context.WithCancel(context.Background())

	logging.ChatDebug("Chat view created (theme dark=%v, refocus=%v)", styles.Theme.IsDark, delay)

	return Model{
		textarea:       ti,
		viewport:       vp,
		spinner:        sp,
		styles:         styles,
		renderer:       newRenderer(styles.Theme.IsDark, wrap),
		session:        conversation.NewSession(nil),
		title:          title,
		refocusDelay:   delay,
		wordWrap:       wrap,
		service:        cfg.Service,
		identity:       cfg.Identity,
		shutdownOnce:   &sync.Once{},
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
}

// newRenderer builds the markdown renderer for bot replies. A nil renderer
// means replies are shown as plain text.
func newRenderer(dark bool, wrap int) *glamour.TermRenderer {
	style := glamour.WithStylePath("light")
	if dark {
		style = glamour.WithStylePath("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		logging.ChatDebug("Markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}
