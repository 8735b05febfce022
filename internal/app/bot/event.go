package bot

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"relaybot/internal/app/user"
)

// Event is one inbound chat event, already parsed out of the transport's payload.
type Event struct {
	// ID correlates every log line produced while handling the event.
	ID string

	From      user.ID
	ArrivedAt time.Time

	// Text is the raw message text for plain messages.
	Text string

	// Command is the lower-cased command name without the leading slash, empty for plain text.
	Command string

	// Args are the whitespace-separated command arguments.
	Args []string
}

// NewTextEvent builds a plain-text event.
func NewTextEvent(from user.ID, text string, at time.Time) Event {
	return Event{ID: uuid.NewString(), From: from, ArrivedAt: at, Text: text}
}

// NewCommandEvent builds a command event.
func NewCommandEvent(from user.ID, command string, args []string, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		From:      from,
		ArrivedAt: at,
		Command:   strings.ToLower(strings.TrimPrefix(command, "/")),
		Args:      args,
	}
}

// IsCommand reports whether the event is a slash command.
func (e Event) IsCommand() bool {
	return e.Command != ""
}
