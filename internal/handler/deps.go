package handler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RosterService is the part of the admin roster cache exposed over HTTP.
type RosterService interface {
	Refresh(ctx context.Context) error
	Len() int
	LastRefresh() (time.Time, bool)
}

// Counter reports a current size.
type Counter interface {
	Len() int
}

// TrackedCounter reports how many users the rate limiter tracks.
type TrackedCounter interface {
	TrackedUsers() int
}

type AppDeps struct {
	Roster   RosterService
	Ledger   Counter
	Limiter  TrackedCounter
	Gatherer prometheus.Gatherer
}
