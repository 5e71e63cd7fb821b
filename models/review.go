package models

import (
	"time"
)

type ReviewPriority string

const (
	PriorityLow     ReviewPriority = "low"
	PriorityMedium  ReviewPriority = "medium"
	PriorityHigh    ReviewPriority = "high"
	PriorityHighest ReviewPriority = "highest"
)

type ClientStatus string

const (
	ClientStatusPending    ClientStatus = "Pending"
	ClientStatusInProgress ClientStatus = "In Progress"
	ClientStatusNoResponse ClientStatus = "No Response"
	ClientStatusReachedOut ClientStatus = "Reached out"
)

// Review is a client inquiry promoted into the admin workflow. Assignment,
// priority and status changes stamp who/when audit fields. Writes are
// last-write-wins; concurrent admins are not conflict-detected.
type Review struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	InquiryID       *uint          `json:"inquiry_id" gorm:"index"`
	FullName        string         `json:"full_name" gorm:"size:255;not null"`
	Email           string         `json:"email" gorm:"size:255;not null"`
	Phone           string         `json:"phone" gorm:"size:30"`
	Company         string         `json:"company" gorm:"size:255"`
	ServiceInterest string         `json:"service_interest" gorm:"size:255"`
	Message         string         `json:"message" gorm:"type:text"`
	Priority        ReviewPriority `json:"priority" gorm:"type:varchar(20);not null;default:'low';check:priority IN ('low','medium','high','highest')"`
	ClientStatus    ClientStatus   `json:"client_status" gorm:"type:varchar(20);not null;default:'Pending'"`

	// Assignment
	AssignedTo     *uint      `json:"assigned_to" gorm:"index"`
	AssignedToName string     `json:"assigned_to_name" gorm:"size:255"`
	AssignedBy     *uint      `json:"assigned_by"`
	AssignedAt     *time.Time `json:"assigned_at"`

	// Audit stamps for priority/status changes
	PriorityChangedBy   *uint      `json:"priority_changed_by"`
	PriorityChangedAt   *time.Time `json:"priority_changed_at"`
	StatusChangedBy     *uint      `json:"status_changed_by"`
	StatusChangedAt     *time.Time `json:"status_changed_at"`
	InProgressStartedAt *time.Time `json:"in_progress_started_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// IsHighTier reports whether the priority sits in the {high, highest} tier
func (p ReviewPriority) IsHighTier() bool {
	return p == PriorityHigh || p == PriorityHighest
}

// IsValidPriority checks a priority value coming from a request
func IsValidPriority(p ReviewPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityHighest:
		return true
	default:
		return false
	}
}

// IsValidClientStatus checks a client status value coming from a request
func IsValidClientStatus(s ClientStatus) bool {
	switch s {
	case ClientStatusPending, ClientStatusInProgress, ClientStatusNoResponse, ClientStatusReachedOut:
		return true
	default:
		return false
	}
}
