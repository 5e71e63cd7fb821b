package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDSortsPair(t *testing.T) {
	assert.Equal(t, "2_7", ConversationID(7, 2))
	assert.Equal(t, "2_7", ConversationID(2, 7))
	assert.Equal(t, "3_3", ConversationID(3, 3))
}

func TestNewConversationNormalizesOrder(t *testing.T) {
	c := NewConversation(9, 4)

	assert.Equal(t, "4_9", c.ID)
	assert.Equal(t, uint(4), c.AdminAID)
	assert.Equal(t, uint(9), c.AdminBID)

	assert.True(t, c.Includes(4))
	assert.True(t, c.Includes(9))
	assert.False(t, c.Includes(5))

	assert.Equal(t, uint(9), c.Peer(4))
	assert.Equal(t, uint(4), c.Peer(9))
}

func TestMessageHideForIsIdempotent(t *testing.T) {
	m := Message{SenderID: 1, ReceiverID: 2}

	assert.False(t, m.HiddenFor(1))

	m.HideFor(1)
	assert.True(t, m.HiddenFor(1))
	assert.False(t, m.HiddenFor(2))
	assert.Len(t, m.DeletedFor, 1)

	m.HideFor(1)
	assert.Len(t, m.DeletedFor, 1)

	m.HideFor(2)
	assert.True(t, m.HiddenFor(2))
	assert.Len(t, m.DeletedFor, 2)
}
