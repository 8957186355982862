/*
Package chat contains the core logic of the single shared chat room: the
session registry, the bounded message log, broadcasting, and the
connection lifecycle.

This file defines the ChatEvent model (one entry in the shared log) and
the classification of user-authored text into plain messages, movie
shares, and AI assistant questions.
*/
package chat

import (
	"strings"
	"time"

	"amazingchat/internal/pkg/randx"
)

// EventKind identifies the type of a chat event.
type EventKind string

const (
	// KindSystem marks server-authored notices, such as join welcomes.
	KindSystem EventKind = "system"

	// KindText is a plain user text message.
	KindText EventKind = "text"

	// KindMovie is a movie share carrying a normalized URL.
	KindMovie EventKind = "movie"

	// KindAIChat is a user question addressed to the AI assistant.
	KindAIChat EventKind = "ai_chat"

	// KindAIReply is the assistant's answer, authored by AssistantName.
	KindAIReply EventKind = "ai_reply"
)

const (
	// MaxMessageRunes caps user-authored message text. Longer messages
	// are truncated and suffixed with TruncationMarker.
	MaxMessageRunes = 500

	// TruncationMarker is appended to truncated message text.
	TruncationMarker = "..."

	// MovieCommand prefixes a movie share: "@电影 <url>".
	MovieCommand = "@电影"

	// AssistantCommand prefixes an assistant question: "@川小农 <问题>".
	AssistantCommand = "@川小农"

	// AssistantName is the reserved identity that authors AI replies.
	AssistantName = "川小农"

	// movieUsageHint is broadcast instead of a movie share with no URL.
	movieUsageHint = "请提供电影URL，格式：@电影 <url>"

	// assistantUsageHint is broadcast instead of an assistant question with no text.
	assistantUsageHint = "请提供要问川小农的问题，格式：@川小农 <问题>"
)

// eventTimeLayout is the human-readable timestamp attached to events.
const eventTimeLayout = "15:04:05"

// SpecialData is the optional structured payload of an event.
// Only the field matching the event kind is set.
type SpecialData struct {
	// URL is the normalized movie URL (KindMovie).
	URL string `json:"url,omitempty"`

	// Question is the text extracted from an assistant command (KindAIChat).
	Question string `json:"question,omitempty"`
}

// ChatEvent is one immutable entry in the shared message log.
type ChatEvent struct {
	ID        string       `json:"id"`
	Kind      EventKind    `json:"type"`
	Username  string       `json:"username,omitempty"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"`
	Special   *SpecialData `json:"special_data,omitempty"`
}

// NewEvent builds a ChatEvent with a fresh ID and the current wall-clock
// timestamp. Username is empty for system events.
func NewEvent(kind EventKind, username, message string) ChatEvent {
	return ChatEvent{
		ID:        randx.EventID(),
		Kind:      kind,
		Username:  username,
		Message:   message,
		Timestamp: time.Now().Format(eventTimeLayout),
	}
}

// TruncateMessage enforces the MaxMessageRunes cap, appending the
// truncation marker when text is cut. The cap counts runes, not bytes,
// so multi-byte text is not split mid-character.
func TruncateMessage(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxMessageRunes {
		return s
	}
	return string(runes[:MaxMessageRunes]) + TruncationMarker
}

// NormalizeMovieURL turns the raw movie-share argument into an absolute
// URL, prepending the default scheme when none is present.
func NormalizeMovieURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// BuildUserEvent validates and classifies a user-authored message body.
// It reports ok=false for bodies that are empty after trimming; such
// messages are dropped without error. Command prefixes with no argument
// degrade to an instructional plain-text event.
func BuildUserEvent(username, body string) (ChatEvent, bool) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ChatEvent{}, false
	}

	message := TruncateMessage(trimmed)

	switch {
	case strings.HasPrefix(message, MovieCommand):
		arg := commandArgument(message)
		if arg == "" {
			return NewEvent(KindText, username, movieUsageHint), true
		}

		event := NewEvent(KindMovie, username, message)
		event.Special = &SpecialData{URL: NormalizeMovieURL(arg)}
		return event, true

	case strings.HasPrefix(message, AssistantCommand):
		arg := commandArgument(message)
		if arg == "" {
			return NewEvent(KindText, username, assistantUsageHint), true
		}

		event := NewEvent(KindAIChat, username, message)
		event.Special = &SpecialData{Question: arg}
		return event, true

	default:
		return NewEvent(KindText, username, message), true
	}
}

// commandArgument extracts the trimmed text after the first space of a
// command message, or "" when the command has no argument.
func commandArgument(message string) string {
	parts := strings.SplitN(message, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
