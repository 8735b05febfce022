/*
Package user contains core data structures related to chat participant identity.

It defines the ID used as the key across every in-memory table of the bot (rate windows,
timeouts, the unanswered-question ledger, the admin roster) and the Profile used to build
a human-readable display name for admin notices.
*/
package user

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is the opaque integer identity of a chat participant (the Telegram chat id).
type ID int64

// String returns the decimal form of the ID, as used in admin notices and /reply arguments.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal user identifier as typed by an admin in a command.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", s, err)
	}
	return ID(v), nil
}

// Profile represents the basic identity information of a chat participant as reported by the transport.
type Profile struct {

	// ID is the participant's chat identity.
	ID ID

	// FirstName is the participant's first name, may be empty.
	FirstName string

	// Username is the participant's handle without the leading "@", may be empty.
	Username string
}

// DisplayName returns the first name, else the handle, else the numeric ID.
func (p Profile) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return p.Username
	}
	return p.ID.String()
}
