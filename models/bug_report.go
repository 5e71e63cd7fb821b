package models

import (
	"time"
)

type BugStatus string

const (
	BugStatusUnresolved BugStatus = "unresolved"
	BugStatusResolved   BugStatus = "resolved"
)

// BugReport is a visitor-submitted problem report triaged in the admin panel
type BugReport struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Email         string         `json:"email" gorm:"size:255;not null"`
	Subject       string         `json:"subject" gorm:"size:255;not null"`
	Message       string         `json:"message" gorm:"type:text;not null"`
	Priority      ReviewPriority `json:"priority" gorm:"type:varchar(20);not null;default:'low'"`
	Status        BugStatus      `json:"status" gorm:"type:varchar(20);not null;default:'unresolved';check:status IN ('unresolved','resolved')"`
	ScreenshotURL *string        `json:"screenshot_url" gorm:"size:512"`
	ResolvedBy    *uint          `json:"resolved_by"`
	ResolvedAt    *time.Time     `json:"resolved_at"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the BugReport model
func (BugReport) TableName() string {
	return "bug_reports"
}
