// Package conversation holds the client-side state of the single chat:
// the ordered message log and the send cycle that extends it.
package conversation

import "fmt"

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ErrorReply is the bot message shown when a send fails.
const ErrorReply = "Error fetching AI response."

// Message is one entry in the conversation. Messages are never edited.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// UserMessage returns a message authored by the user.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// BotMessage returns a message authored by the bot.
func BotMessage(text string) Message {
	return Message{Role: RoleBot, Text: text}
}

// Valid reports whether m carries a known role.
func (m Message) Valid() bool {
	return m.Role == RoleUser || m.Role == RoleBot
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Role, m.Text)
}
