package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a citizen's scam complaint. Rows are never deleted.
type Report struct {
	ID               uint         `gorm:"primaryKey" json:"report_id"`
	UserID           uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	ScamType         ScamType     `gorm:"size:50;not null;index" json:"scam_type"`
	Description      string       `gorm:"type:text;not null" json:"description"`
	ScamDate         time.Time    `gorm:"type:date;not null" json:"scam_date"`
	ProofKey         string       `gorm:"size:255;not null" json:"-"`
	ProofContentType string       `gorm:"size:100;not null" json:"proof_content_type"`
	ProofSize        int64        `gorm:"not null" json:"proof_size"`
	Status           ReportStatus `gorm:"column:report_status;size:30;not null;default:'Submitted';index;check:chk_reports_status,report_status IN ('Submitted','In Progress','Waiting for Update','Under Review','Escalated','Resolved','Closed','On Hold','Cancelled')" json:"report_status"`
	AdminComments    *string      `gorm:"type:text" json:"admin_comments"`
	Version          int          `gorm:"not null;default:1" json:"version"`
	SubmittedAt      time.Time    `gorm:"not null;index" json:"submitted_at"`
	LastModified     time.Time    `gorm:"not null" json:"last_modified"`
	User             User         `gorm:"foreignKey:UserID" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}
