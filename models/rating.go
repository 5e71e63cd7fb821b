package models

import (
	"time"
)

// Rating is a public testimonial submitted from the website. Approved
// ratings are shown on the site; the admin panel toggles approval.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255"`
	Stars     int       `json:"stars" gorm:"type:int;not null;check:stars >= 1 AND stars <= 5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	Approved  bool      `json:"approved" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Rating model
func (Rating) TableName() string {
	return "ratings"
}
