package handlers

import (
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	intake    *services.IntakeService
	lifecycle *services.LifecycleService
	query     *services.ReportQueryService
}

func NewReportHandler(intake *services.IntakeService, lifecycle *services.LifecycleService, query *services.ReportQueryService) *ReportHandler {
	return &ReportHandler{intake: intake, lifecycle: lifecycle, query: query}
}

// Submit accepts a multipart form: scam_type, description, scam_date, proof.
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	user := identity.CurrentUser(c)

	in := services.SubmitReportInput{
		UserID:      user.ID,
		ScamType:    c.FormValue("scam_type"),
		Description: c.FormValue("description"),
		ScamDate:    c.FormValue("scam_date"),
	}

	if fh, err := c.FormFile("proof"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "Invalid proof upload")
		}
		defer f.Close()
		in.Proof = &services.ProofUpload{Filename: fh.Filename, Size: fh.Size, Content: f}
	}

	report, err := h.intake.Submit(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitReportResponse{
		ReportID:     report.ID,
		ReportStatus: report.Status,
		SubmittedAt:  report.SubmittedAt,
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.query.Get(c.UserContext(), identity.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Proof(c *fiber.Ctx) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	rc, report, err := h.query.OpenProof(c.UserContext(), identity.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	defer rc.Close()

	return sendAttachment(c, rc, report.ProofContentType, fmt.Sprintf("report-%d-proof", report.ID))
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	reports, total, err := h.query.ListMine(c.UserContext(), identity.CurrentUser(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Total: total, Limit: limit, Offset: offset})
}

// List serves the reviewer dashboard with optional status, scam_type and
// user_id filters.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.ReportFilter{
		Status:   models.ReportStatus(c.Query("status")),
		ScamType: models.ScamType(c.Query("scam_type")),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid user ID")
		}
		filter.UserID = &userID
	}

	reports, total, err := h.query.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReportListResponse{Reports: reports, Total: total, Limit: limit, Offset: offset})
}

func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.query.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"counts": counts})
}

// UpdateStatusInternal is the admin surface.
func (h *ReportHandler) UpdateStatusInternal(c *fiber.Ctx) error {
	return h.updateStatus(c, services.ReviewerInternal)
}

// UpdateStatusExternal is the external reviewer surface.
func (h *ReportHandler) UpdateStatusExternal(c *fiber.Ctx) error {
	return h.updateStatus(c, services.ReviewerExternal)
}

func (h *ReportHandler) updateStatus(c *fiber.Ctx, role services.ReviewerRole) error {
	id, err := reportID(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.lifecycle.UpdateStatus(c.UserContext(), id, role, services.StatusUpdate{
		Status:          req.Status,
		Comment:         req.Comment,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.UpdateStatusResponse{
		ReportID:     report.ID,
		ReportStatus: report.Status,
		LastModified: report.LastModified,
		Version:      report.Version,
	})
}

func reportID(c *fiber.Ctx) (uint, error) {
	n, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(n), nil
}
