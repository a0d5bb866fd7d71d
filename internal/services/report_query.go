package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/storage"
)

// ReportQueryService is the read path for dashboards and report owners.
type ReportQueryService struct {
	reports ReportStore
	proofs  storage.ProofStore
}

func NewReportQueryService(reports ReportStore, proofs storage.ProofStore) *ReportQueryService {
	return &ReportQueryService{reports: reports, proofs: proofs}
}

// Get returns the report if viewer owns it or is a reviewer. Other viewers
// get ErrReportNotFound so report IDs cannot be enumerated.
func (s *ReportQueryService) Get(ctx context.Context, viewer *models.User, id uint) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.Role.Reviewer() && report.UserID != viewer.ID {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func (s *ReportQueryService) List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, invalid("status", "%q is not a recognized status", filter.Status)
	}
	if filter.ScamType != "" && !filter.ScamType.Valid() {
		return nil, 0, invalid("scam_type", "%q is not a recognized scam type", filter.ScamType)
	}
	return s.reports.List(ctx, filter)
}

func (s *ReportQueryService) ListMine(ctx context.Context, owner *models.User, limit, offset int) ([]models.Report, int64, error) {
	return s.reports.List(ctx, repository.ReportFilter{UserID: &owner.ID, Limit: limit, Offset: offset})
}

func (s *ReportQueryService) Stats(ctx context.Context) (map[models.ReportStatus]int64, error) {
	return s.reports.CountByStatus(ctx)
}

// OpenProof streams the proof attached to a report visible to viewer.
func (s *ReportQueryService) OpenProof(ctx context.Context, viewer *models.User, id uint) (io.ReadCloser, *models.Report, error) {
	report, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.proofs.Open(ctx, report.ProofKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil, ErrProofUnavailable
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open proof: %w", err)
	}
	return rc, report, nil
}
