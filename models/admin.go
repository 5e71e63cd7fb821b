package models

import (
	"time"

	"gorm.io/gorm"
)

type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "superAdmin"
)

type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
)

type Admin struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Username     string      `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string      `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string      `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         AdminRole   `json:"role" gorm:"type:varchar(20);not null;default:'admin';check:role IN ('admin','superAdmin')"`
	Status       AdminStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','approved')"`
	Gender       string      `json:"gender" gorm:"size:20"`
	ApprovedBy   *uint       `json:"approved_by"`
	ApprovedAt   *time.Time  `json:"approved_at"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}

// BeforeCreate is a GORM hook that runs before creating an admin
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	if a.Status == "" {
		a.Status = AdminStatusPending
	}
	return nil
}

// IsSuperAdmin checks if the admin holds the elevated role
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// IsApproved checks if the admin may sign in. SuperAdmins bypass the
// approval gate so the back-office can always be reached.
func (a *Admin) IsApproved() bool {
	return a.Status == AdminStatusApproved || a.IsSuperAdmin()
}
