/*
Package errs provides custom error types and application-level error code constants.

Every code maps to the exact plain-text chat message shown to the user or admin who triggered it,
so that user-visible failures are always a single chat message and never an internal error string.
*/
package errs

// 1xxx: Command Validation Errors
const (
	// ErrInvalidParams indicates that a command was invoked with missing arguments.
	ErrInvalidParams = 1001

	// ErrInvalidUserID indicates that a command argument expected to be a user id is not numeric.
	ErrInvalidUserID = 1002
)

// 2xxx: Relay Business Logic Errors
const (
	// ErrNoPendingQuestion indicates that an admin replied to a user with no unanswered question.
	ErrNoPendingQuestion = 2101

	// ErrReplyDeliveryFailed indicates that an admin reply could not be delivered to the user.
	ErrReplyDeliveryFailed = 2102

	// ErrAwaitingFollowUp indicates that the user must finish a numeric follow-up before asking again.
	ErrAwaitingFollowUp = 2201
)

// 3xxx: Access and Rate Limiting Errors
const (
	// ErrUnauthorized indicates that a non-admin invoked an admin-only command.
	ErrUnauthorized = 3001

	// ErrRateLimitExceeded indicates that the user exceeded the message rate and has been timed out.
	ErrRateLimitExceeded = 3101

	// ErrTimedOut indicates that the user is still inside a timeout and the message is ignored.
	ErrTimedOut = 3102

	// ErrTooManyRequests indicates that an ops client called a throttled endpoint too often.
	ErrTooManyRequests = 3201
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general internal error.
	ErrUnknown = 5000

	// ErrRosterRefreshFailed indicates that the admin roster could not be reloaded from the directory.
	ErrRosterRefreshFailed = 5001
)
