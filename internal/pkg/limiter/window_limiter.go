/*
Package limiter provides per-user message rate limiting for the chat relay.

It keeps a sliding window of recent arrival times for each user and a table of
"timed out until" instants. A user whose window exceeds the threshold is timed out;
timeouts expire lazily when a later message observes the current time past them.
A background sweep drops users with no remaining state so the tables stay bounded.
*/
package limiter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"relaybot/internal/app/user"
	"relaybot/internal/pkg/logx"
)

// Decision is the outcome of recording one inbound message.
type Decision int

const (
	Allowed Decision = iota
	RateLimited
	TimedOut
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case RateLimited:
		return "rate_limited"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Verdict is returned by RecordAndCheck.
type Verdict struct {
	Decision Decision

	// Notify is true when the caller should send the user the notice matching Decision.
	// It is always true for RateLimited and true for TimedOut only when the warning gate allows it.
	Notify bool
}

// Config holds the limiter thresholds.
type Config struct {
	// Window is the trailing interval in which arrivals are counted.
	Window time.Duration

	// MaxMessages is the largest window size that is still allowed.
	MaxMessages int

	// Timeout is how long a user is muted after exceeding MaxMessages.
	Timeout time.Duration
}

// DefaultConfig returns 10 messages per 30 seconds with a 60 second timeout.
func DefaultConfig() Config {
	return Config{
		Window:      30 * time.Second,
		MaxMessages: 10,
		Timeout:     60 * time.Second,
	}
}

// WindowLimiter implements sliding-window rate limiting keyed by user.
type WindowLimiter struct {
	// mu protects windows and timeouts.
	mu sync.Mutex

	// windows holds, per user, arrival times in non-decreasing order.
	windows map[user.ID][]time.Time

	// timeouts holds, per user, the instant until which messages are suppressed.
	timeouts map[user.ID]time.Time

	gate WarningGate
	cfg  Config

	logger zerolog.Logger
}

// NewWindowLimiter creates a limiter with the given thresholds and warning gate.
func NewWindowLimiter(cfg Config, gate WarningGate) *WindowLimiter {
	return &WindowLimiter{
		windows:  make(map[user.ID][]time.Time),
		timeouts: make(map[user.ID]time.Time),
		gate:     gate,
		cfg:      cfg,
		logger:   logx.Component("limiter"),
	}
}

// RecordAndCheck appends now to the user's window, prunes it, and classifies the message.
// Every arrival is recorded, including ones that end up suppressed.
func (l *WindowLimiter) RecordAndCheck(id user.ID, now time.Time) Verdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	window := insertSorted(l.windows[id], now)
	window = prune(window, now.Add(-l.cfg.Window))
	l.windows[id] = window

	if len(window) > l.cfg.MaxMessages {
		until := now.Add(l.cfg.Timeout)
		l.timeouts[id] = until
		l.gate.Arm(id)

		l.logger.Info().
			Stringer("user_id", id).
			Int("window_len", len(window)).
			Time("timed_out_until", until).
			Msg("User exceeded message rate.")
		return Verdict{Decision: RateLimited, Notify: true}
	}

	if until, ok := l.timeouts[id]; ok {
		if now.Before(until) {
			return Verdict{Decision: TimedOut, Notify: l.gate.Consume(id)}
		}
		delete(l.timeouts, id)
	}

	return Verdict{Decision: Allowed}
}

// TimedOutUntil returns the stored timeout for the user, if any.
// Expired entries may still be returned until the next message from that user is recorded.
func (l *WindowLimiter) TimedOutUntil(id user.ID) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.timeouts[id]
	return until, ok
}

// TrackedUsers returns how many users currently hold window or timeout state.
func (l *WindowLimiter) TrackedUsers() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.windows)
	for id := range l.timeouts {
		if _, ok := l.windows[id]; !ok {
			n++
		}
	}
	return n
}

// Sweep removes users whose window is empty at now and whose timeout has passed.
// It returns the number of users removed.
func (l *WindowLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.cfg.Window)
	removed := 0

	for id, window := range l.windows {
		if until, ok := l.timeouts[id]; ok && now.Before(until) {
			continue
		}
		if n := len(window); n > 0 && !window[n-1].Before(cutoff) {
			continue
		}
		delete(l.windows, id)
		delete(l.timeouts, id)
		removed++
	}

	for id, until := range l.timeouts {
		if _, ok := l.windows[id]; !ok && !now.Before(until) {
			delete(l.timeouts, id)
			removed++
		}
	}

	return removed
}

// Run sweeps idle users every interval until ctx is cancelled.
func (l *WindowLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := l.Sweep(now)
			l.logger.Debug().
				Int("removed", removed).
				Int("tracked", l.TrackedUsers()).
				Msg("Rate limiter sweep finished.")
		}
	}
}

// insertSorted appends t, keeping the slice ordered when the clock steps backwards.
func insertSorted(window []time.Time, t time.Time) []time.Time {
	n := len(window)
	if n == 0 || !t.Before(window[n-1]) {
		return append(window, t)
	}

	i := sort.Search(n, func(i int) bool { return window[i].After(t) })
	window = append(window, time.Time{})
	copy(window[i+1:], window[i:])
	window[i] = t
	return window
}

// prune drops arrivals older than cutoff. The window is ordered, so the survivors are a suffix.
func prune(window []time.Time, cutoff time.Time) []time.Time {
	i := sort.Search(len(window), func(i int) bool { return !window[i].Before(cutoff) })
	if i == 0 {
		return window
	}
	return append(window[:0], window[i:]...)
}
