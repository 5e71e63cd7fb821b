package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-admin-server/models"
)

func TestBuildNotificationExpiryWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	n := BuildNotification(7, "title", "body", models.NotificationAssignment, nil, now)

	assert.Equal(t, now, n.CreatedAt)
	assert.Equal(t, 48*time.Hour, n.ExpiresAt.Sub(n.CreatedAt))
	assert.Equal(t, uint(7), n.AdminID)
	assert.Equal(t, models.NotificationAssignment, n.Type)
	assert.False(t, n.Read)
}

func TestBuildNotificationSnapshotsReview(t *testing.T) {
	now := time.Now()
	review := models.Review{
		ID:       42,
		FullName: "Jane Client",
		Email:    "jane@example.com",
		Priority: models.PriorityHigh,
	}

	n := BuildNotification(1, "Review escalated", "msg", models.NotificationHighPriority, &review, now)

	require.NotNil(t, n.ReviewID)
	assert.Equal(t, uint(42), *n.ReviewID)

	var snapshot models.Review
	require.NoError(t, json.Unmarshal([]byte(n.ReviewData), &snapshot))
	assert.Equal(t, review.FullName, snapshot.FullName)
	assert.Equal(t, review.Priority, snapshot.Priority)
}

func TestNotificationExpiredBoundary(t *testing.T) {
	now := time.Now()
	n := BuildNotification(1, "t", "m", models.NotificationDefault, nil, now)

	assert.False(t, n.Expired(now))
	assert.False(t, n.Expired(now.Add(48*time.Hour-time.Second)))
	assert.True(t, n.Expired(now.Add(48*time.Hour)))
	assert.True(t, n.Expired(now.Add(49*time.Hour)))
}
