package repository

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForOwner returns a GORM scope that filters by the submitting user.
func ForOwner(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func WithStatus(status models.ReportStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("report_status = ?", status)
	}
}

func WithScamType(scamType models.ScamType) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("scam_type = ?", scamType)
	}
}

// Paginate applies limit/offset; a non-positive limit means no limit.
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
