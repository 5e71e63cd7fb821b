package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"agency-admin-server/models"
)

// AssignmentEmailPayload carries everything the dispatcher needs to email a
// newly assigned admin
type AssignmentEmailPayload struct {
	To             string `json:"to"`
	AdminName      string `json:"admin_name"`
	ReviewID       uint   `json:"review_id"`
	ClientName     string `json:"client_name"`
	AssignedByName string `json:"assigned_by_name"`
}

// BugResolvedEmailPayload notifies a reporter that their bug was resolved
type BugResolvedEmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	ReportID uint   `json:"report_id"`
}

// ConfirmationEmailPayload acknowledges a submitted inquiry
type ConfirmationEmailPayload struct {
	To        string `json:"to"`
	FullName  string `json:"full_name"`
	InquiryID uint   `json:"inquiry_id"`
}

// BuildOutboxEvent marshals a payload into a pending outbox record
func BuildOutboxEvent(kind models.OutboxKind, payload interface{}, now time.Time) (models.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.OutboxEvent{}, err
	}
	return models.OutboxEvent{
		Kind:          kind,
		Payload:       string(data),
		Status:        models.OutboxPending,
		NextAttemptAt: now,
	}, nil
}

// EnqueueOutbox writes a side-effect intent on the given transaction so it
// commits (or rolls back) together with the primary mutation
func EnqueueOutbox(tx *gorm.DB, kind models.OutboxKind, payload interface{}) (*models.OutboxEvent, error) {
	event, err := BuildOutboxEvent(kind, payload, time.Now())
	if err != nil {
		return nil, err
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}
