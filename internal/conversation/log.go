package conversation

import "sync"

// Log is the ordered, append-only message list. Insertion order is display order.
//
// History from the backend may replace the log only while nothing has been
// appended locally; a late history result never clobbers messages the user
// has already seen.
type Log struct {
	mu       sync.RWMutex
	messages []Message
	appended int // local appends since construction
	replaced bool
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds m to the end of the log.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
	l.appended++
}

// Replace swaps the whole log for history. It reports false, leaving the log
// unchanged, if a local message was already appended or history was already
// applied. Messages with an unknown role are dropped.
func (l *Log) Replace(history []Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.appended > 0 || l.replaced {
		return false
	}

	msgs := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Valid() {
			msgs = append(msgs, m)
		}
	}
	l.messages = msgs
	l.replaced = true
	return true
}

// Messages returns a copy of the log.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the most recent message, if any.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
