package limiter

import (
	"fmt"
	"sync"

	"relaybot/internal/app/user"
)

// Warning scopes accepted by NewGate.
const (
	ScopeGlobal  = "global"
	ScopePerUser = "per_user"
)

// WarningGate decides whether a timed-out user gets the one-shot "you are timed out" notice.
// Arm is called whenever a user trips the rate threshold; Consume is called for each message
// dropped during a timeout and returns true at most once per arming.
type WarningGate interface {
	Arm(id user.ID)
	Consume(id user.ID) bool
}

// NewGate returns the gate implementation for the configured scope.
func NewGate(scope string) (WarningGate, error) {
	switch scope {
	case "", ScopeGlobal:
		return &GlobalGate{}, nil
	case ScopePerUser:
		return NewPerUserGate(), nil
	default:
		return nil, fmt.Errorf("unknown warning scope %q", scope)
	}
}

// GlobalGate is a single process-wide flag shared by every user.
// Arming it for one user lets the next timed-out message from any user consume it.
type GlobalGate struct {
	mu    sync.Mutex
	armed bool
}

func (g *GlobalGate) Arm(user.ID) {
	g.mu.Lock()
	g.armed = true
	g.mu.Unlock()
}

func (g *GlobalGate) Consume(user.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.armed {
		return false
	}
	g.armed = false
	return true
}

// PerUserGate keeps one flag per user.
type PerUserGate struct {
	mu    sync.Mutex
	armed map[user.ID]struct{}
}

func NewPerUserGate() *PerUserGate {
	return &PerUserGate{armed: make(map[user.ID]struct{})}
}

func (g *PerUserGate) Arm(id user.ID) {
	g.mu.Lock()
	g.armed[id] = struct{}{}
	g.mu.Unlock()
}

func (g *PerUserGate) Consume(id user.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.armed[id]; !ok {
		return false
	}
	delete(g.armed, id)
	return true
}
