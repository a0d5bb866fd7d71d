package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a free-form message to the site operators.
type ContactMessage struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Message               string    `gorm:"type:text;not null" json:"message"`
	AttachmentKey         string    `gorm:"size:255" json:"-"`
	AttachmentContentType string    `gorm:"size:100" json:"attachment_content_type,omitempty"`
	SubmittedAt           time.Time `gorm:"not null;index" json:"submitted_at"`
	User                  User      `gorm:"foreignKey:UserID" json:"-"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
