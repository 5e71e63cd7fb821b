package models

import (
	"time"
)

// Inquiry represents a prospective client's submitted contact form.
// Promoting an inquiry creates a Review in the admin workflow.
type Inquiry struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	FullName        string     `json:"full_name" gorm:"size:255;not null"`
	Email           string     `json:"email" gorm:"size:255;not null"`
	Phone           string     `json:"phone" gorm:"size:30"`
	Company         string     `json:"company" gorm:"size:255"`
	ServiceInterest string     `json:"service_interest" gorm:"size:255"`
	Message         string     `json:"message" gorm:"type:text;not null"`
	Promoted        bool       `json:"promoted" gorm:"default:false"`
	PromotedAt      *time.Time `json:"promoted_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Inquiry model
func (Inquiry) TableName() string {
	return "inquiries"
}
