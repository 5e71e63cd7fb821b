package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHighTier(t *testing.T) {
	assert.False(t, PriorityLow.IsHighTier())
	assert.False(t, PriorityMedium.IsHighTier())
	assert.True(t, PriorityHigh.IsHighTier())
	assert.True(t, PriorityHighest.IsHighTier())
}

func TestIsValidPriority(t *testing.T) {
	for _, p := range []ReviewPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityHighest} {
		assert.True(t, IsValidPriority(p))
	}
	assert.False(t, IsValidPriority(""))
	assert.False(t, IsValidPriority("urgent"))
}

func TestIsValidClientStatus(t *testing.T) {
	for _, s := range []ClientStatus{ClientStatusPending, ClientStatusInProgress, ClientStatusNoResponse, ClientStatusReachedOut} {
		assert.True(t, IsValidClientStatus(s))
	}
	assert.False(t, IsValidClientStatus(""))
	assert.False(t, IsValidClientStatus("pending"))
}
