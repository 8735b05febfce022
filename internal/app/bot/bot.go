/*
Package bot contains the message-ingestion pipeline of the relay.

Inbound events are handled one at a time, in arrival order, by Bot.Run. Plain text goes
through the Router (rate limiting, then relay to every cached admin); slash commands go
to the ReplyHandler or the informational commands. All state lives in the collaborators
passed in through Deps.
*/
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"relaybot/internal/app/ledger"
	"relaybot/internal/app/metrics"
	"relaybot/internal/app/user"
	"relaybot/internal/pkg/errs"
	"relaybot/internal/pkg/logx"
)

// CommandListMessage lists the admin commands.
const CommandListMessage = "Available commands for admins:\n\n/reply - Reply to user\n/command, /cmd - Show this list"

// eventTimeout bounds the transport I/O performed for a single event.
const eventTimeout = 30 * time.Second

// FAQRenderer renders the FAQ catalog.
type FAQRenderer interface {
	Render(ctx context.Context) (string, error)
}

// Deps are the collaborators shared by the router and the reply handler.
type Deps struct {
	Limiter   RateChecker
	Flows     FlowState
	Ledger    *ledger.Ledger
	Roster    Roster
	Transport Transport
	FAQ       FAQRenderer
	SlowHours SlowHours
	Metrics   *metrics.Metrics
}

// Bot dispatches inbound events.
type Bot struct {
	router    *Router
	replies   *ReplyHandler
	faq       FAQRenderer
	roster    Roster
	transport Transport
	metrics   *metrics.Metrics

	logger zerolog.Logger
}

// New wires a Bot and its handlers from deps.
func New(deps Deps) *Bot {
	return &Bot{
		router:    NewRouter(deps),
		replies:   NewReplyHandler(deps),
		faq:       deps.FAQ,
		roster:    deps.Roster,
		transport: deps.Transport,
		metrics:   deps.Metrics,
		logger:    logx.Component("bot"),
	}
}

// Run handles events sequentially until ctx is cancelled or events is closed.
func (b *Bot) Run(ctx context.Context, events <-chan Event) {
	b.logger.Info().Msg("Event loop started.")
	defer b.logger.Info().Msg("Event loop stopped.")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.Handle(ctx, ev)
		}
	}
}

// Handle processes a single event.
func (b *Bot) Handle(ctx context.Context, ev Event) {
	logger := b.logger.With().
		Str("event_id", ev.ID).
		Stringer("user_id", ev.From).
		Logger()

	ctx, cancel := context.WithTimeout(logger.WithContext(ctx), eventTimeout)
	defer cancel()

	if !ev.IsCommand() {
		outcome := b.router.OnMessage(ctx, ev.From, ev.Text, ev.ArrivedAt)
		logger.Debug().Stringer("outcome", outcome).Msg("Message handled.")
		return
	}

	b.metrics.Commands.WithLabelValues(ev.Command).Inc()

	switch ev.Command {
	case "reply":
		outcome := b.replies.OnReply(ctx, ev.From, ev.Args)
		logger.Info().Stringer("outcome", outcome).Msg("Reply command handled.")

	case "command", "cmd":
		b.commandList(ctx, ev.From)

	case "faq", "start":
		b.sendFAQ(ctx, ev.From)

	default:
		logger.Debug().Str("command", ev.Command).Msg("Ignoring unknown command.")
	}
}

func (b *Bot) commandList(ctx context.Context, caller user.ID) {
	text := CommandListMessage
	if !b.roster.IsAdmin(caller) {
		text = errs.NewError(errs.ErrUnauthorized).Message
	}
	b.send(ctx, Outbound{To: caller, Text: text})
}

func (b *Bot) sendFAQ(ctx context.Context, to user.ID) {
	text, err := b.faq.Render(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to render FAQ.")
		b.send(ctx, Outbound{To: to, Text: errs.NewError(errs.ErrUnknown).Message})
		return
	}
	b.send(ctx, Outbound{To: to, Text: text, Markdown: true})
}

func (b *Bot) send(ctx context.Context, msg Outbound) {
	if err := b.transport.Send(ctx, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Stringer("to", msg.To).Msg("Failed to send message.")
	}
}
