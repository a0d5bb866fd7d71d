package handlers

import (
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var attachment *services.ProofUpload
	if fh, err := c.FormFile("attachment"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "Invalid attachment upload")
		}
		defer f.Close()
		attachment = &services.ProofUpload{Filename: fh.Filename, Size: fh.Size, Content: f}
	}

	msg, err := h.contact.Submit(c.UserContext(), identity.CurrentUser(c).ID, c.FormValue("message"), attachment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	messages, total, err := h.contact.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ContactListResponse{Messages: messages, Total: total, Limit: limit, Offset: offset})
}

// Attachment serves a contact message's attachment to reviewers.
func (h *ContactHandler) Attachment(c *fiber.Ctx) error {
	n, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || n == 0 {
		return badRequest(c, "Invalid message ID")
	}

	rc, msg, err := h.contact.OpenAttachment(c.UserContext(), uint(n))
	if err != nil {
		return respondError(c, err)
	}
	defer rc.Close()

	return sendAttachment(c, rc, msg.AttachmentContentType, fmt.Sprintf("contact-%d-attachment", msg.ID))
}
