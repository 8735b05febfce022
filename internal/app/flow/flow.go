// Package flow tracks per-user conversational state that outlives a single message.
package flow

import (
	"sync"

	"relaybot/internal/app/user"
)

// Tracker records which users owe the bot a numeric follow-up answer.
// While the flag is set, their free-text questions are not relayed.
type Tracker struct {
	mu       sync.RWMutex
	awaiting map[user.ID]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{awaiting: make(map[user.ID]struct{})}
}

// SetAwaitingNumber marks the user as mid-flow.
func (t *Tracker) SetAwaitingNumber(id user.ID) {
	t.mu.Lock()
	t.awaiting[id] = struct{}{}
	t.mu.Unlock()
}

// Clear ends the user's flow.
func (t *Tracker) Clear(id user.ID) {
	t.mu.Lock()
	delete(t.awaiting, id)
	t.mu.Unlock()
}

// AwaitingNumber reports whether the user is mid-flow.
func (t *Tracker) AwaitingNumber(id user.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.awaiting[id]
	return ok
}
