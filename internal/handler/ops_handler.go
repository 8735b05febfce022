package handler

import (
	"errors"
	"net/http"
	"time"

	"relaybot/internal/pkg/errs"
	"relaybot/internal/pkg/logx"
	"relaybot/internal/pkg/resp"
)

type StatsOutput struct {
	Admins           int        `json:"admins"`
	PendingQuestions int        `json:"pendingQuestions"`
	TrackedUsers     int        `json:"trackedUsers"`
	RosterRefreshed  *time.Time `json:"rosterRefreshedAt,omitempty"`
}

// HandleStats reports current in-memory sizes.
func HandleStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := StatsOutput{
			Admins:           deps.Roster.Len(),
			PendingQuestions: deps.Ledger.Len(),
			TrackedUsers:     deps.Limiter.TrackedUsers(),
		}
		if at, ok := deps.Roster.LastRefresh(); ok {
			out.RosterRefreshed = &at
		}
		resp.RespondSuccess(w, r, out)
	}
}

// HandleRosterRefresh reloads the admin roster now. On failure the previous roster stays in place.
func HandleRosterRefresh(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Roster.Refresh(r.Context()); err != nil {
			logx.Error(err, "Manual roster refresh failed.")
			resp.RespondErr(w, r, errors.Join(errs.NewError(errs.ErrRosterRefreshFailed), err))
			return
		}

		logx.Info("Manual roster refresh completed.", "admins", deps.Roster.Len())
		resp.RespondSuccess(w, r, map[string]int{"admins": deps.Roster.Len()})
	}
}
