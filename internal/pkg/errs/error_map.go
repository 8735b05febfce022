package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// Status is only meaningful on the ops HTTP surface; chat replies use Message alone.
var errorMap = map[int]CustomError{
	// 1xxx: Command Validation Errors
	ErrInvalidParams: {Code: ErrInvalidParams, Message: "Usage: %s", Status: http.StatusBadRequest},
	ErrInvalidUserID: {Code: ErrInvalidUserID, Message: "Invalid user id.", Status: http.StatusBadRequest},

	// 2xxx: Relay Business Logic Errors
	ErrNoPendingQuestion:   {Code: ErrNoPendingQuestion, Message: "No pending question from this user."},
	ErrReplyDeliveryFailed: {Code: ErrReplyDeliveryFailed, Message: "Failed to deliver the reply. Please try again."},
	ErrAwaitingFollowUp:    {Code: ErrAwaitingFollowUp, Message: "Please enter the number of people before asking another question."},

	// 3xxx: Access and Rate Limiting Errors
	ErrUnauthorized:      {Code: ErrUnauthorized, Message: "You are not authorized to use this command.", Status: http.StatusForbidden},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "You are sending messages too quickly. Please wait a minute before sending more messages.", Status: http.StatusTooManyRequests},
	ErrTimedOut:          {Code: ErrTimedOut, Message: "You are currently timed out. Your responses will be ignored, please wait for a minute.", Status: http.StatusTooManyRequests},
	ErrTooManyRequests:   {Code: ErrTooManyRequests, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 5xxx: Internal System Errors
	ErrUnknown:             {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrRosterRefreshFailed: {Code: ErrRosterRefreshFailed, Message: "Admin roster refresh failed.", Status: http.StatusServiceUnavailable},
}
