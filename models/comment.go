package models

import (
	"time"
)

// Comment belongs to exactly one review. Comments are retained for seven
// days and then removed by the retention job.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReviewID  uint      `json:"review_id" gorm:"not null;index"`
	AdminID   uint      `json:"admin_id" gorm:"not null"`
	AdminName string    `json:"admin_name" gorm:"size:255"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Edited    bool      `json:"edited" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}
