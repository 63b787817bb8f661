package domain

import "time"

// Message roles for conversation turns and provider calls.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is a single message in the conversation history.
type ChatTurn struct {
	// Role is one of RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// At is when the turn was recorded.
	At time.Time
}

// ResponseMode selects between the two prompt-construction strategies.
// Both share the same context-assembly step and differ only in the
// instructions given to the completion provider.
type ResponseMode string

// Available response modes.
const (
	// ModeQuick asks for a short, direct answer.
	ModeQuick ResponseMode = "quick"

	// ModeDetailed asks for a thorough answer with structure.
	ModeDetailed ResponseMode = "detailed"
)

// IsValid returns true if the response mode is recognised.
func (m ResponseMode) IsValid() bool {
	switch m {
	case ModeQuick, ModeDetailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ResponseMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ResponseMode) Description() string {
	switch m {
	case ModeQuick:
		return "Quick (short direct answers)"
	case ModeDetailed:
		return "Detailed (thorough structured answers)"
	default:
		return "Unknown"
	}
}

// Conversation is an append-only history of chat turns.
type Conversation struct {
	turns []ChatTurn
}

// Append records a turn at the end of the history.
func (c *Conversation) Append(role, content string) {
	c.turns = append(c.turns, ChatTurn{Role: role, Content: content, At: time.Now()})
}

// Window returns the most recent n turns, oldest first. The returned slice
// is a copy; mutating it does not affect the history.
func (c *Conversation) Window(n int) []ChatTurn {
	if n <= 0 || len(c.turns) == 0 {
		return nil
	}
	start := len(c.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]ChatTurn, len(c.turns)-start)
	copy(out, c.turns[start:])
	return out
}

// Len returns the number of recorded turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Clear discards the whole history.
func (c *Conversation) Clear() {
	c.turns = nil
}
