package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-admin-server/models"
)

func TestBuildOutboxEvent(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	payload := AssignmentEmailPayload{
		To:             "bob@example.com",
		AdminName:      "bob",
		ReviewID:       42,
		ClientName:     "Jane Client",
		AssignedByName: "alice",
	}

	event, err := BuildOutboxEvent(models.OutboxAssignmentEmail, payload, now)
	require.NoError(t, err)

	assert.Equal(t, models.OutboxAssignmentEmail, event.Kind)
	assert.Equal(t, models.OutboxPending, event.Status)
	assert.Equal(t, now, event.NextAttemptAt)
	assert.Zero(t, event.Attempts)

	var decoded AssignmentEmailPayload
	require.NoError(t, json.Unmarshal([]byte(event.Payload), &decoded))
	assert.Equal(t, payload, decoded)
}

func TestBuildOutboxEventRejectsUnmarshalablePayload(t *testing.T) {
	_, err := BuildOutboxEvent(models.OutboxConfirmationEmail, make(chan int), time.Now())
	assert.Error(t, err)
}
