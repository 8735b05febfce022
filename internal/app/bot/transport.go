package bot

import (
	"context"

	"relaybot/internal/app/user"
)

// Outbound is one chat message to deliver.
type Outbound struct {
	To   user.ID
	Text string

	// Markdown asks the transport to render Text with Markdown formatting.
	Markdown bool
}

// Transport is the subset of the chat transport the bot depends on.
type Transport interface {
	Send(ctx context.Context, msg Outbound) error
	DisplayName(ctx context.Context, id user.ID) (string, error)
}
