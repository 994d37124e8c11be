package conversation

import (
	"strings"
	"sync"

	"zai/internal/logging"
)

// Phase is the send-cycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Session drives Idle -> Sending -> Idle over a Log. At most one message is in
// flight at a time.
type Session struct {
	mu    sync.Mutex
	log   *Log
	phase Phase
}

// NewSession returns an idle session over log (a fresh log if nil).
func NewSession(log *Log) *Session {
	if log == nil {
		log = NewLog()
	}
	return &Session{log: log}
}

// Log returns the underlying message log.
func (s *Session) Log() *Log {
	return s.log
}

// Phase returns the current state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Sending reports whether a message is in flight.
func (s *Session) Sending() bool {
	return s.Phase() == PhaseSending
}

// Begin starts a send of draft. It appends the user message and enters
// Sending, returning the text to transmit. It returns false without touching
// state if a send is already in flight or draft is blank.
func (s *Session) Begin(draft string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseSending {
		logging.ChatDebug("Submit ignored: send already in flight")
		return "", false
	}
	if strings.TrimSpace(draft) == "" {
		return "", false
	}

	s.log.Append(UserMessage(draft))
	s.phase = PhaseSending
	logging.ChatDebug("Send started (%d chars)", len(draft))
	return draft, true
}

// Settle completes the in-flight send. A nil err appends reply as a bot
// message; otherwise the ErrorReply sentinel is appended and err is logged.
// The session returns to Idle either way. Settle while Idle is a no-op and
// returns false.
func (s *Session) Settle(reply string, err error) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSending {
		logging.ChatDebug("Settle ignored: no send in flight")
		return Message{}, false
	}

	var m Message
	if err != nil {
		logging.APIError("Send failed: %v", err)
		m = BotMessage(ErrorReply)
	} else {
		m = BotMessage(reply)
	}
	s.log.Append(m)
	s.phase = PhaseIdle
	logging.ChatDebug("Send settled, log has %d messages", s.log.Len())
	return m, true
}

// ApplyHistory seeds the log from backend history. See Log.Replace.
func (s *Session) ApplyHistory(history []Message) bool {
	if !s.log.Replace(history) {
		logging.Chat("History ignored: conversation already started locally")
		return false
	}
	logging.Chat("Loaded %d history messages", s.log.Len())
	return true
}
