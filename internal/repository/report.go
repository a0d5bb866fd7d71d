package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("report not found")
	ErrConstraintViolation = errors.New("report constraint violation")
	ErrVersionConflict     = errors.New("report was modified concurrently")
)

// ReportFilter narrows List results. Zero values match everything.
type ReportFilter struct {
	UserID   *uuid.UUID
	Status   models.ReportStatus
	ScamType models.ScamType
	Limit    int
	Offset   int
}

// StatusPatch enumerates the only columns a status update may touch.
type StatusPatch struct {
	Status models.ReportStatus
	// Comment is written to admin_comments when non-nil.
	Comment *string
	// ExpectedVersion must match the stored version for the patch to apply.
	ExpectedVersion int
	At              time.Time
}

func (p StatusPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{
		"report_status": p.Status,
		"last_modified": p.At,
		"version":       gorm.Expr("version + 1"),
	}
	if p.Comment != nil {
		cols["admin_comments"] = *p.Comment
	}
	return cols
}

// ReportRepository is the only writer of report rows.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := checkNewReport(report); err != nil {
		return err
	}
	if report.Version == 0 {
		report.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// List returns the matching reports, newest first, and the unpaginated total.
func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.UserID != nil {
		query = query.Scopes(ForOwner(*filter.UserID))
	}
	if filter.Status != "" {
		query = query.Scopes(WithStatus(filter.Status))
	}
	if filter.ScamType != "" {
		query = query.Scopes(WithScamType(filter.ScamType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	reports := make([]models.Report, 0)
	err := query.Scopes(Paginate(filter.Limit, filter.Offset)).
		Order("submitted_at DESC").Order("id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// CountByStatus returns the number of reports in each status.
func (r *ReportRepository) CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error) {
	var rows []struct {
		ReportStatus models.ReportStatus
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("report_status, COUNT(*) AS count").
		Group("report_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by status: %w", err)
	}

	counts := make(map[models.ReportStatus]int64, len(models.AllReportStatuses))
	for _, st := range models.AllReportStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.ReportStatus] = row.Count
	}
	return counts, nil
}

// UpdateStatus applies patch if the stored version still equals
// patch.ExpectedVersion. Status, last_modified, admin_comments and version
// change together or not at all.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uint, patch StatusPatch) (*models.Report, error) {
	if err := checkPatch(patch); err != nil {
		return nil, err
	}

	var updated models.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id = ? AND version = ?", id, patch.ExpectedVersion).
			Updates(patch.columns())
		if result.Error != nil {
			return fmt.Errorf("failed to update report status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check report: %w", err)
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func checkNewReport(report *models.Report) error {
	switch {
	case report.UserID == uuid.Nil:
		return violation("user_id is required")
	case !report.ScamType.Valid():
		return violation("scam_type %q is not recognized", report.ScamType)
	case strings.TrimSpace(report.Description) == "":
		return violation("description is required")
	case report.ScamDate.IsZero():
		return violation("scam_date is required")
	case report.ProofKey == "":
		return violation("proof is required")
	case report.Status != models.StatusSubmitted:
		return violation("new reports must be %q, got %q", models.StatusSubmitted, report.Status)
	case report.SubmittedAt.IsZero() || report.LastModified.IsZero():
		return violation("timestamps are required")
	case report.ScamDate.After(report.SubmittedAt):
		return violation("scam_date is after submission")
	}
	return nil
}

func checkPatch(patch StatusPatch) error {
	switch {
	case !patch.Status.Valid():
		return violation("report_status %q is not recognized", patch.Status)
	case patch.Status.RequiresComment() && (patch.Comment == nil || strings.TrimSpace(*patch.Comment) == ""):
		return violation("admin_comments is required for %q", patch.Status)
	case patch.At.IsZero():
		return violation("last_modified is required")
	}
	return nil
}

func violation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}
