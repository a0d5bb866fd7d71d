package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
)

// ReportStore is the persistence contract the report services depend on.
// *repository.ReportRepository satisfies it.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, int64, error)
	CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error)
	UpdateStatus(ctx context.Context, id uint, patch repository.StatusPatch) (*models.Report, error)
}
