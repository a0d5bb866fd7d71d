package handlers

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/services"
	"github.com/gabriel-vasile/mimetype"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// MapServiceError converts a service error to a status code and body so
// every handler reports the same error kinds the same way.
func MapServiceError(err error) (int, dto.ErrorResponse) {
	resp := dto.ErrorResponse{Error: true, Message: err.Error()}

	var verr *services.ValidationError
	var terr *services.TransitionError

	switch {
	case errors.As(err, &verr):
		resp.Field = verr.Field
		return fiber.StatusUnprocessableEntity, resp
	case errors.Is(err, services.ErrMissingComment):
		resp.Field = "comment"
		return fiber.StatusUnprocessableEntity, resp
	case errors.As(err, &terr):
		resp.CurrentStatus = string(terr.Current)
		resp.AllowedStatuses = make([]string, len(terr.Allowed))
		for i, st := range terr.Allowed {
			resp.AllowedStatuses[i] = string(st)
		}
		return fiber.StatusConflict, resp
	case errors.Is(err, services.ErrConcurrentUpdate):
		return fiber.StatusConflict, resp
	case errors.Is(err, services.ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge, resp
	case errors.Is(err, services.ErrUnsupportedMediaType):
		return fiber.StatusUnsupportedMediaType, resp
	case errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrContactNotFound),
		errors.Is(err, services.ErrProofUnavailable):
		return fiber.StatusNotFound, resp
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, resp
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized, resp
	case errors.Is(err, services.ErrUserBanned),
		errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, resp
	case errors.Is(err, services.ErrAccountLocked):
		return fiber.StatusTooManyRequests, resp
	}

	resp.Message = "Internal server error"
	return fiber.StatusInternalServerError, resp
}

// respondError writes err; 5xx errors are logged and reported to Sentry.
func respondError(c *fiber.Ctx, err error) error {
	code, resp := MapServiceError(err)
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
	return c.Status(code).JSON(resp)
}

// sendAttachment streams an uploaded file as a download. Uploads are never
// rendered inline from the API origin.
func sendAttachment(c *fiber.Ctx, rc io.Reader, contentType, name string) error {
	data, err := io.ReadAll(rc)
	if err != nil {
		return respondError(c, err)
	}
	if known := mimetype.Lookup(contentType); known != nil {
		name += known.Extension()
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(fiber.HeaderContentSecurityPolicy, "sandbox")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	return c.Send(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// pagination reads limit/offset query params.
func pagination(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
