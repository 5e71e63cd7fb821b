package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutboxKind string

const (
	OutboxAssignmentEmail   OutboxKind = "assignment-email"
	OutboxBugResolvedEmail  OutboxKind = "bug-resolved-email"
	OutboxConfirmationEmail OutboxKind = "confirmation-email"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// OutboxEvent is a side-effect intent written in the same transaction as the
// primary mutation. The dispatcher job delivers pending events with retry,
// so an email failure never rolls back an already-committed assignment.
type OutboxEvent struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	EventID       string       `json:"event_id" gorm:"size:36;uniqueIndex;not null"` // idempotency key
	Kind          OutboxKind   `json:"kind" gorm:"type:varchar(30);not null"`
	Payload       string       `json:"payload" gorm:"type:text;not null"` // JSON
	Status        OutboxStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending';index"`
	Attempts      int          `json:"attempts" gorm:"default:0"`
	NextAttemptAt time.Time    `json:"next_attempt_at" gorm:"index"`
	LastError     string       `json:"last_error" gorm:"size:500"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the OutboxEvent model
func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// BeforeCreate is a GORM hook that assigns the idempotency key
func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = OutboxPending
	}
	if e.NextAttemptAt.IsZero() {
		e.NextAttemptAt = time.Now()
	}
	return nil
}
