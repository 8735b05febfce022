package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.AwaitingNumber(1))

	tr.SetAwaitingNumber(1)
	assert.True(t, tr.AwaitingNumber(1))
	assert.False(t, tr.AwaitingNumber(2))

	tr.Clear(1)
	assert.False(t, tr.AwaitingNumber(1))
}
