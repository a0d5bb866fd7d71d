package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
)

type StatusUpdate struct {
	Status  string
	Comment string
	// ExpectedVersion, when non-zero, must match the report's current version.
	ExpectedVersion int
}

// LifecycleService applies reviewer status changes under the transition table.
type LifecycleService struct {
	reports ReportStore
	now     func() time.Time
}

func NewLifecycleService(reports ReportStore) *LifecycleService {
	return &LifecycleService{reports: reports, now: time.Now}
}

func (s *LifecycleService) WithClock(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// UpdateStatus moves a report to req.Status on behalf of role. On any error
// the stored report is unchanged.
func (s *LifecycleService) UpdateStatus(ctx context.Context, reportID uint, role ReviewerRole, req StatusUpdate) (*models.Report, error) {
	if !role.Valid() {
		return nil, ErrForbidden
	}
	to, ok := models.ParseReportStatus(strings.TrimSpace(req.Status))
	if !ok {
		return nil, invalid("status", "%q is not a recognized status", req.Status)
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(role, report.Status, to); err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(req.Comment)
	if to.RequiresComment() && comment == "" {
		return nil, ErrMissingComment
	}

	version := report.Version
	if req.ExpectedVersion != 0 {
		if req.ExpectedVersion != report.Version {
			return nil, ErrConcurrentUpdate
		}
		version = req.ExpectedVersion
	}

	patch := repository.StatusPatch{
		Status:          to,
		ExpectedVersion: version,
		At:              s.now().UTC(),
	}
	if comment != "" {
		patch.Comment = &comment
	}

	updated, err := s.reports.UpdateStatus(ctx, reportID, patch)
	if err != nil {
		if errors.Is(err, ErrConstraintViolation) {
			slog.Error("status update rejected by store",
				"report_id", reportID, "from", string(report.Status), "to", string(to), "error", err)
		}
		return nil, err
	}

	slog.Info("report status changed",
		"report_id", reportID,
		"from", string(report.Status),
		"to", string(to),
		"role", string(role),
		"version", updated.Version,
	)
	return updated, nil
}
