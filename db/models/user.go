package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	UserRole  Role = "user"
	OwnerRole Role = "owner"
	AdminRole Role = "admin"
)

// User represents a marketplace account. Owners list spaces, users book them.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FullName string    `gorm:"not null" json:"full_name"`
	Email    string    `gorm:"unique;not null" json:"email"`
	Phone    *string   `json:"phone"`
	Password string    `json:"-"` // Never include in JSON responses

	Role        Role       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = UserRole
	}
	return nil
}

// Principal is the authenticated caller as seen by the services.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == AdminRole
}
