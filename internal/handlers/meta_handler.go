package handlers

import (
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// MetaHandler publishes the enumerations and limits forms are built from.
type MetaHandler struct {
	resp dto.MetaResponse
}

func NewMetaHandler(intake *services.IntakeService) *MetaHandler {
	transitions := make(map[string][]models.ReportStatus)
	for role, targets := range services.TransitionTable() {
		transitions[string(role)] = targets
	}

	var terminal []models.ReportStatus
	for _, st := range models.AllReportStatuses {
		if st.Terminal() {
			terminal = append(terminal, st)
		}
	}

	cfg := intake.Config()
	return &MetaHandler{resp: dto.MetaResponse{
		ScamTypes:     models.AllScamTypes,
		Statuses:      models.AllReportStatuses,
		Terminal:      terminal,
		Transitions:   transitions,
		AcceptedMedia: services.AcceptedMediaKinds,
		MaxProofBytes: cfg.MaxProofBytes,
		MinScamDate:   cfg.ScamDateFloor.Format("2006-01-02"),
	}}
}

func (h *MetaHandler) Get(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.JSON(h.resp)
}
