package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"relaybot/internal/app/ledger"
	"relaybot/internal/app/metrics"
	"relaybot/internal/app/user"
	"relaybot/internal/pkg/errs"
	"relaybot/internal/pkg/limiter"
)

// AckMessage is the fixed acknowledgment sent once a question has been relayed.
const AckMessage = "I don't have an answer right now. The admin will reply soon!"

// RateChecker records an arrival and classifies it.
type RateChecker interface {
	RecordAndCheck(id user.ID, now time.Time) limiter.Verdict
}

// Roster is the read side of the admin roster cache.
type Roster interface {
	IsAdmin(id user.ID) bool
	Admins() []user.ID
}

// FlowState reports whether a user is in the middle of a numeric follow-up.
type FlowState interface {
	AwaitingNumber(id user.ID) bool
}

// Outcome is the result of routing one plain-text message.
type Outcome int

const (
	OutcomeRelayed Outcome = iota
	OutcomeRateLimited
	OutcomeTimedOut
	OutcomeAwaitingFollowUp
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRelayed:
		return "relayed"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeAwaitingFollowUp:
		return "awaiting_follow_up"
	default:
		return "unknown"
	}
}

// Router handles plain-text messages from users: rate limiting, then relay to every admin.
type Router struct {
	limiter   RateChecker
	flows     FlowState
	ledger    *ledger.Ledger
	roster    Roster
	transport Transport
	slow      SlowHours
	metrics   *metrics.Metrics
}

// NewRouter builds a Router from its collaborators.
func NewRouter(deps Deps) *Router {
	return &Router{
		limiter:   deps.Limiter,
		flows:     deps.Flows,
		ledger:    deps.Ledger,
		roster:    deps.Roster,
		transport: deps.Transport,
		slow:      deps.SlowHours,
		metrics:   deps.Metrics,
	}
}

// OnMessage routes one message that arrived at now.
// Messages stopped by the limiter produce at most the limiter's own notice and leave the ledger untouched.
func (r *Router) OnMessage(ctx context.Context, from user.ID, text string, now time.Time) Outcome {
	logger := zerolog.Ctx(ctx)

	verdict := r.limiter.RecordAndCheck(from, now)
	r.metrics.Messages.WithLabelValues(verdict.Decision.String()).Inc()

	switch verdict.Decision {
	case limiter.RateLimited:
		if verdict.Notify {
			r.notify(ctx, from, errs.NewError(errs.ErrRateLimitExceeded).Message)
		}
		return OutcomeRateLimited

	case limiter.TimedOut:
		if verdict.Notify {
			r.notify(ctx, from, errs.NewError(errs.ErrTimedOut).Message)
		} else {
			logger.Debug().Msg("Dropped message from timed-out user.")
		}
		return OutcomeTimedOut
	}

	if r.flows.AwaitingNumber(from) {
		r.notify(ctx, from, errs.NewError(errs.ErrAwaitingFollowUp).Message)
		return OutcomeAwaitingFollowUp
	}

	if r.slow.Contains(now) {
		r.notify(ctx, from, SlowHoursNotice)
	}

	// No automatic FAQ matching: every question falls through to the admins.

	r.ledger.Record(from, text, now)

	notice := fmt.Sprintf("User %s (%s) asked: %s", from, r.displayName(ctx, from), text)
	delivered, failed := r.fanOut(ctx, notice)
	r.metrics.Relayed.Inc()

	logger.Info().
		Int("admins_notified", delivered).
		Int("admins_failed", failed).
		Msg("Question relayed to admins.")

	r.notify(ctx, from, AckMessage)
	return OutcomeRelayed
}

// fanOut sends notice to every cached admin. Each send is attempted independently.
func (r *Router) fanOut(ctx context.Context, notice string) (delivered, failed int) {
	logger := zerolog.Ctx(ctx)

	for _, admin := range r.roster.Admins() {
		if err := r.transport.Send(ctx, Outbound{To: admin, Text: notice}); err != nil {
			failed++
			r.metrics.FanoutFailures.Inc()
			logger.Error().Err(err).Stringer("admin_id", admin).Msg("Failed to notify admin.")
			continue
		}
		delivered++
	}
	return delivered, failed
}

func (r *Router) displayName(ctx context.Context, id user.ID) string {
	name, err := r.transport.DisplayName(ctx, id)
	if err != nil || name == "" {
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to resolve display name, using user id.")
		}
		return id.String()
	}
	return name
}

func (r *Router) notify(ctx context.Context, to user.ID, text string) {
	if err := r.transport.Send(ctx, Outbound{To: to, Text: text}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Stringer("to", to).Msg("Failed to send message.")
	}
}
