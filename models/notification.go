package models

import (
	"time"
)

type NotificationType string

const (
	NotificationAssignment   NotificationType = "assignment"
	NotificationHighPriority NotificationType = "high-priority"
	NotificationStatusChange NotificationType = "status-change"
	NotificationDefault      NotificationType = "default"
)

// NotificationTTL is how long a notification stays visible in the inbox.
// ExpiresAt is always CreatedAt + NotificationTTL.
const NotificationTTL = 48 * time.Hour

// Notification is a time-boxed record targeted at one admin, created when
// assignment, priority or status events occur.
type Notification struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	AdminID    uint             `json:"admin_id" gorm:"not null;index"`
	Title      string           `json:"title" gorm:"size:255;not null"`
	Message    string           `json:"message" gorm:"type:text;not null"`
	Type       NotificationType `json:"type" gorm:"type:varchar(20);not null;default:'default'"`
	ReviewID   *uint            `json:"review_id"`
	ReviewData string           `json:"review_data" gorm:"type:text"` // JSON snapshot of the review
	Read       bool             `json:"read" gorm:"default:false"`
	CreatedAt  time.Time        `json:"created_at"`
	ExpiresAt  time.Time        `json:"expires_at" gorm:"index"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// Expired reports whether the notification has passed its expiry at the
// given instant
func (n *Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
