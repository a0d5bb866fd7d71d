package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleExternal Role = "external"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleExternal:
		return true
	}
	return false
}

// Reviewer reports whether r may triage reports.
func (r Role) Reviewer() bool {
	return r == RoleAdmin || r == RoleExternal
}

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserBanned
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Role      Role       `gorm:"size:20;not null;default:'user'" json:"role"`
	Status    UserStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
