// Package metrics exposes Prometheus instruments for the relay pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "relaybot"

// Metrics groups every collector the bot updates.
type Metrics struct {
	// Messages counts inbound plain-text messages by limiter decision.
	Messages *prometheus.CounterVec

	// Relayed counts questions fanned out to admins.
	Relayed prometheus.Counter

	// FanoutFailures counts per-admin delivery failures during fan-out.
	FanoutFailures prometheus.Counter

	// Replies counts /reply invocations by outcome.
	Replies *prometheus.CounterVec

	// Commands counts slash commands by name.
	Commands *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound plain-text messages by rate limiter decision.",
		}, []string{"decision"}),
		Relayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_relayed_total",
			Help:      "Questions recorded in the ledger and fanned out to admins.",
		}),
		FanoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_failures_total",
			Help:      "Admin notices that could not be delivered.",
		}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Admin /reply invocations by outcome.",
		}, []string{"outcome"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Slash commands received by command name.",
		}, []string{"command"}),
	}

	reg.MustRegister(m.Messages, m.Relayed, m.FanoutFailures, m.Replies, m.Commands)
	return m
}

// RegisterGauges exposes live sizes of the in-memory tables.
func RegisterGauges(reg prometheus.Registerer, admins, pending, tracked func() int) {
	gauge := func(name, help string, fn func() int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(fn()) })
	}

	reg.MustRegister(
		gauge("admins", "Admins in the cached roster.", admins),
		gauge("pending_questions", "Unanswered questions in the ledger.", pending),
		gauge("rate_tracked_users", "Users holding rate limiter state.", tracked),
	)
}
