package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
)

type SubmitReportResponse struct {
	ReportID     uint                `json:"report_id"`
	ReportStatus models.ReportStatus `json:"report_status"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

type UpdateStatusRequest struct {
	Status          string `json:"status"`
	Comment         string `json:"comment"`
	ExpectedVersion int    `json:"expected_version"`
}

type UpdateStatusResponse struct {
	ReportID     uint                `json:"report_id"`
	ReportStatus models.ReportStatus `json:"report_status"`
	LastModified time.Time           `json:"last_modified"`
	Version      int                 `json:"version"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type MetaResponse struct {
	ScamTypes     []models.ScamType                `json:"scam_types"`
	Statuses      []models.ReportStatus            `json:"statuses"`
	Terminal      []models.ReportStatus            `json:"terminal_statuses"`
	Transitions   map[string][]models.ReportStatus `json:"transitions"`
	AcceptedMedia []string                         `json:"accepted_media"`
	MaxProofBytes int64                            `json:"max_proof_bytes"`
	MinScamDate   string                           `json:"min_scam_date"`
}
