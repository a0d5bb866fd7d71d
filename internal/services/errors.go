package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
)

var (
	ErrReportNotFound       = repository.ErrNotFound
	ErrConstraintViolation  = repository.ErrConstraintViolation
	ErrConcurrentUpdate     = repository.ErrVersionConflict
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrMissingComment       = errors.New("comment is required for this status")
	ErrPayloadTooLarge      = errors.New("proof exceeds the maximum size")
	ErrUnsupportedMediaType = errors.New("proof must be an image, audio, video or PDF file")
	ErrForbidden            = errors.New("not allowed to access this report")
	ErrProofUnavailable     = errors.New("proof file is unavailable")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError carries the state a rejected transition started from.
type TransitionError struct {
	Current   models.ReportStatus
	Requested models.ReportStatus
	Allowed   []models.ReportStatus
}

func (e *TransitionError) Error() string {
	if e.Current.Terminal() {
		return fmt.Sprintf("report is %s and can no longer change status", e.Current)
	}
	allowed := make([]string, len(e.Allowed))
	for i, st := range e.Allowed {
		allowed[i] = string(st)
	}
	return fmt.Sprintf("cannot move report from %s to %s (allowed: %s)",
		e.Current, e.Requested, strings.Join(allowed, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
