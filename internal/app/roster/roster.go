/*
Package roster caches the set of administrator identities loaded from the user directory.

The cached set is published by replacement: every refresh builds a brand-new snapshot and
swaps it in atomically, so readers never observe a partially built roster. The refresh loop
reschedules itself after each run rather than ticking at a fixed rate.
*/
package roster

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"relaybot/internal/app/user"
	"relaybot/internal/pkg/logx"
)

// DefaultInterval is the delay between the end of one refresh and the start of the next.
const DefaultInterval = 60 * time.Second

// refreshTimeout bounds a single directory lookup.
const refreshTimeout = 15 * time.Second

// Directory is the read-only source of admin identities.
type Directory interface {
	FindAdmins(ctx context.Context) ([]user.ID, error)
}

type snapshot struct {
	ids []user.ID
	set map[user.ID]struct{}
}

func newSnapshot(ids []user.ID) *snapshot {
	s := &snapshot{
		ids: make([]user.ID, 0, len(ids)),
		set: make(map[user.ID]struct{}, len(ids)),
	}
	for _, id := range ids {
		if _, dup := s.set[id]; dup {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// Cache holds the current admin roster and keeps it fresh in the background.
type Cache struct {
	dir      Directory
	interval time.Duration

	current atomic.Pointer[snapshot]

	// lastRefresh is the unix-nano time of the last successful refresh, 0 if none.
	lastRefresh atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger zerolog.Logger
}

// NewCache returns an empty roster backed by dir.
func NewCache(dir Directory, interval time.Duration) *Cache {
	if interval <= 0 {
		interval = DefaultInterval
	}

	c := &Cache{
		dir:      dir,
		interval: interval,
		logger:   logx.Component("roster"),
	}
	c.current.Store(newSnapshot(nil))
	return c
}

// Refresh loads the admin list from the directory and replaces the cached roster wholesale.
// On failure the previous roster stays in place.
func (c *Cache) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	ids, err := c.dir.FindAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to load admins: %w", err)
	}

	next := newSnapshot(ids)
	c.current.Store(next)
	c.lastRefresh.Store(time.Now().UnixNano())

	c.logger.Info().
		Int("admins", len(next.ids)).
		Msg("Admin roster refreshed.")
	return nil
}

// IsAdmin reports whether id is in the current roster.
func (c *Cache) IsAdmin(id user.ID) bool {
	_, ok := c.current.Load().set[id]
	return ok
}

// Admins returns a copy of the current roster in directory order.
func (c *Cache) Admins() []user.ID {
	return slices.Clone(c.current.Load().ids)
}

// Len returns the size of the current roster.
func (c *Cache) Len() int {
	return len(c.current.Load().ids)
}

// LastRefresh returns when the roster was last loaded successfully.
func (c *Cache) LastRefresh() (time.Time, bool) {
	ns := c.lastRefresh.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}

// Start performs the initial refresh and launches the background refresh loop.
// A failed initial refresh is logged; the loop keeps retrying on schedule.
func (c *Cache) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	if err := c.Refresh(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Initial admin roster refresh failed.")
	}

	c.wg.Add(1)
	go c.run(ctx)
}

// Stop cancels the refresh loop and waits for it to exit.
func (c *Cache) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.logger.Info().Msg("Admin roster refresh loop stopped.")
}

// run refreshes the roster, then schedules the next run one interval after the previous one finished.
func (c *Cache) run(ctx context.Context) {
	defer c.wg.Done()

	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Error().Err(err).Msg("Admin roster refresh failed, keeping previous roster.")
			}
			timer.Reset(c.interval)
		}
	}
}
