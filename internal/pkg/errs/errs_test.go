package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError_KnownCode(t *testing.T) {
	err := NewError(ErrNoPendingQuestion)

	assert.Equal(t, ErrNoPendingQuestion, err.Code)
	assert.Equal(t, "No pending question from this user.", err.Message)
	assert.Equal(t, http.StatusOK, err.Status)
}

func TestNewError_FormatsDetails(t *testing.T) {
	err := NewError(ErrInvalidParams, "/reply <user_id> <message>")

	assert.Equal(t, "Usage: /reply <user_id> <message>", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestNewError_UnknownCodeFallsBack(t *testing.T) {
	err := NewError(987654)

	assert.Equal(t, ErrUnknown, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestNewError_TemplateIsNotMutated(t *testing.T) {
	_ = NewError(ErrInvalidParams, "/a")
	second := NewError(ErrInvalidParams, "/b")

	assert.Equal(t, "Usage: /b", second.Message)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("reply: %w", NewError(ErrUnauthorized))

	assert.Equal(t, ErrUnauthorized, CodeOf(wrapped))
	assert.Equal(t, ErrUnknown, CodeOf(errors.New("boom")))
}
