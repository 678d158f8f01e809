package realtime

import (
	"strings"
	"time"
)

const (
	// chatHistorySize bounds the per-game message log; the oldest entry is
	// evicted when a new one would exceed it.
	chatHistorySize = 50
	// maxChatRunes truncates oversized messages instead of rejecting them.
	maxChatRunes = 500
)

// ChatMessage is one entry of a game's chat log.
type ChatMessage struct {
	From   string    `json:"from"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// ChatLog is a fixed-capacity FIFO of chat messages. Not safe for
// concurrent use; the hub serializes access.
type ChatLog struct {
	capacity int
	messages []ChatMessage
}

// NewChatLog creates an empty log holding at most capacity entries.
func NewChatLog(capacity int) *ChatLog {
	return &ChatLog{capacity: capacity}
}

// Append trims and stores a message, evicting the oldest entry when full.
// Blank messages are dropped and ok is false.
func (l *ChatLog) Append(from, text string, at time.Time) (ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatMessage{}, false
	}
	if runes := []rune(text); len(runes) > maxChatRunes {
		text = string(runes[:maxChatRunes])
	}
	msg := ChatMessage{From: from, Text: text, SentAt: at}
	if len(l.messages) >= l.capacity {
		l.messages = l.messages[1:]
	}
	l.messages = append(l.messages, msg)
	return msg, true
}

// Messages returns a copy of the log, oldest first.
func (l *ChatLog) Messages() []ChatMessage {
	out := make([]ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}
