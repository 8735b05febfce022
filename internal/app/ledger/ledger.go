/*
Package ledger tracks, per user, the most recent question that no admin has answered yet.

A user holds at most one entry: a new question silently replaces the previous one.
The entry is removed when an admin reply is delivered to that user.
*/
package ledger

import (
	"sync"
	"time"

	"relaybot/internal/app/user"
)

// Question is one unanswered question.
type Question struct {
	Text    string
	AskedAt time.Time
}

// Ledger is the in-memory map of unanswered questions, safe for concurrent use.
type Ledger struct {
	mu        sync.RWMutex
	questions map[user.ID]Question
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{questions: make(map[user.ID]Question)}
}

// Record stores text as the user's pending question, overwriting any previous one.
func (l *Ledger) Record(id user.ID, text string, askedAt time.Time) {
	l.mu.Lock()
	l.questions[id] = Question{Text: text, AskedAt: askedAt}
	l.mu.Unlock()
}

// Resolve removes and returns the user's pending question.
func (l *Ledger) Resolve(id user.ID) (Question, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.questions[id]
	if ok {
		delete(l.questions, id)
	}
	return q, ok
}

// Get returns the user's pending question without removing it.
func (l *Ledger) Get(id user.ID) (Question, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q, ok := l.questions[id]
	return q, ok
}

// Contains reports whether the user has a pending question.
func (l *Ledger) Contains(id user.ID) bool {
	_, ok := l.Get(id)
	return ok
}

// Len returns the number of pending questions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.questions)
}
