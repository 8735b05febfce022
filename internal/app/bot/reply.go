package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"relaybot/internal/app/ledger"
	"relaybot/internal/app/metrics"
	"relaybot/internal/app/user"
	"relaybot/internal/pkg/errs"
)

const (
	// ReplyUsage is the argument synopsis of the /reply command.
	ReplyUsage = "/reply <user_id> <message>"

	// ReplySentMessage confirms a delivered reply to the admin.
	ReplySentMessage = "Reply sent successfully!"

	replyPrefix = "Admin says: "
)

// ReplyOutcome is the result of one /reply invocation.
type ReplyOutcome int

const (
	ReplySent ReplyOutcome = iota
	ReplyUnauthorized
	ReplyInvalid
	ReplyNoPendingQuestion
	ReplyDeliveryFailed
)

func (o ReplyOutcome) String() string {
	switch o {
	case ReplySent:
		return "sent"
	case ReplyUnauthorized:
		return "unauthorized"
	case ReplyInvalid:
		return "invalid"
	case ReplyNoPendingQuestion:
		return "no_pending_question"
	case ReplyDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

var outcomeByCode = map[int]ReplyOutcome{
	errs.ErrUnauthorized:        ReplyUnauthorized,
	errs.ErrInvalidParams:       ReplyInvalid,
	errs.ErrInvalidUserID:       ReplyInvalid,
	errs.ErrNoPendingQuestion:   ReplyNoPendingQuestion,
	errs.ErrReplyDeliveryFailed: ReplyDeliveryFailed,
}

// ReplyHandler routes an admin's answer back to the user who asked.
type ReplyHandler struct {
	roster    Roster
	ledger    *ledger.Ledger
	transport Transport
	metrics   *metrics.Metrics
}

func NewReplyHandler(deps Deps) *ReplyHandler {
	return &ReplyHandler{
		roster:    deps.Roster,
		ledger:    deps.Ledger,
		transport: deps.Transport,
		metrics:   deps.Metrics,
	}
}

// OnReply handles "/reply <user_id> <message...>" from caller and tells the caller how it went.
func (h *ReplyHandler) OnReply(ctx context.Context, caller user.ID, args []string) ReplyOutcome {
	outcome := ReplySent
	confirmation := ReplySentMessage

	if err := h.reply(ctx, caller, args); err != nil {
		var customErr *errs.CustomError
		if !errors.As(err, &customErr) {
			customErr = errs.NewError(errs.ErrUnknown, err)
		}
		if o, ok := outcomeByCode[errs.CodeOf(err)]; ok {
			outcome = o
		} else {
			outcome = ReplyDeliveryFailed
		}
		confirmation = customErr.Message
	}

	h.metrics.Replies.WithLabelValues(outcome.String()).Inc()

	if err := h.transport.Send(ctx, Outbound{To: caller, Text: confirmation}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Stringer("to", caller).Msg("Failed to confirm reply to admin.")
	}
	return outcome
}

// reply validates and delivers the answer. Nothing is mutated unless delivery succeeds.
func (h *ReplyHandler) reply(ctx context.Context, caller user.ID, args []string) error {
	logger := zerolog.Ctx(ctx)

	if !h.roster.IsAdmin(caller) {
		logger.Warn().Stringer("caller", caller).Msg("Non-admin attempted /reply.")
		return errs.NewError(errs.ErrUnauthorized)
	}

	if len(args) < 2 {
		return errs.NewError(errs.ErrInvalidParams, ReplyUsage)
	}

	target, err := user.ParseID(args[0])
	if err != nil {
		return errs.NewError(errs.ErrInvalidUserID)
	}
	message := strings.Join(args[1:], " ")

	if !h.ledger.Contains(target) {
		return errs.NewError(errs.ErrNoPendingQuestion)
	}

	if err := h.transport.Send(ctx, Outbound{To: target, Text: replyPrefix + message}); err != nil {
		logger.Error().Err(err).Stringer("target", target).Msg("Failed to deliver admin reply.")
		return errs.NewError(errs.ErrReplyDeliveryFailed)
	}

	h.ledger.Resolve(target)

	logger.Info().
		Stringer("admin_id", caller).
		Stringer("target", target).
		Msg("Admin reply delivered.")
	return nil
}
