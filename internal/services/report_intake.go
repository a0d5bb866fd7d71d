package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const scamDateLayout = "2006-01-02"

// acceptedMediaPrefixes are the proof kinds intake admits, besides PDF.
var acceptedMediaPrefixes = []string{"image/", "audio/", "video/"}

// scriptableMedia match an accepted prefix but can carry active content.
var scriptableMedia = []string{"image/svg+xml"}

// AcceptedMediaKinds describes the proof kinds for clients.
var AcceptedMediaKinds = []string{"image/*", "audio/*", "video/*", "application/pdf"}

type ProofUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type SubmitReportInput struct {
	UserID      uuid.UUID    `json:"user_id" validate:"required"`
	ScamType    string       `json:"scam_type" validate:"required,scamtype"`
	Description string       `json:"description" validate:"required,max=5000"`
	ScamDate    string       `json:"scam_date" validate:"required"`
	Proof       *ProofUpload `json:"proof" validate:"required"`
}

type IntakeConfig struct {
	MaxProofBytes int64
	ScamDateFloor time.Time
}

// IntakeService validates new reports and admits them as Submitted.
type IntakeService struct {
	reports  ReportStore
	proofs   storage.ProofStore
	cfg      IntakeConfig
	validate *validator.Validate
	now      func() time.Time
}

func NewIntakeService(reports ReportStore, proofs storage.ProofStore, cfg IntakeConfig) *IntakeService {
	return &IntakeService{
		reports:  reports,
		proofs:   proofs,
		cfg:      cfg,
		validate: newValidator(),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for "today" and timestamps.
func (s *IntakeService) WithClock(now func() time.Time) *IntakeService {
	s.now = now
	return s
}

func (s *IntakeService) Config() IntakeConfig { return s.cfg }

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("scamtype", func(fl validator.FieldLevel) bool {
		return models.ScamType(fl.Field().String()).Valid()
	})
	return v
}

func (s *IntakeService) Submit(ctx context.Context, in SubmitReportInput) (*models.Report, error) {
	in.ScamType = strings.TrimSpace(in.ScamType)
	in.Description = strings.TrimSpace(in.Description)
	in.ScamDate = strings.TrimSpace(in.ScamDate)

	if err := s.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}

	scamDate, err := s.checkScamDate(in.ScamDate)
	if err != nil {
		return nil, err
	}

	data, mime, err := s.readProof(in.Proof)
	if err != nil {
		return nil, err
	}

	key := "proofs/" + uuid.NewString() + mime.Extension()
	if err := s.proofs.Put(ctx, key, mime.String(), data); err != nil {
		return nil, fmt.Errorf("failed to store proof: %w", err)
	}

	now := s.now().UTC()
	report := &models.Report{
		UserID:           in.UserID,
		ScamType:         models.ScamType(in.ScamType),
		Description:      in.Description,
		ScamDate:         scamDate,
		ProofKey:         key,
		ProofContentType: mime.String(),
		ProofSize:        int64(len(data)),
		Status:           models.StatusSubmitted,
		Version:          1,
		SubmittedAt:      now,
		LastModified:     now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if delErr := s.proofs.Delete(ctx, key); delErr != nil {
			slog.Error("failed to remove orphaned proof", "key", key, "error", delErr)
		}
		if errors.Is(err, ErrConstraintViolation) {
			slog.Error("report rejected by store", "user_id", in.UserID.String(), "error", err)
		}
		return nil, err
	}

	slog.Info("report submitted",
		"report_id", report.ID,
		"user_id", in.UserID.String(),
		"scam_type", in.ScamType,
		"proof_type", report.ProofContentType,
	)
	return report, nil
}

func (s *IntakeService) checkScamDate(raw string) (time.Time, error) {
	scamDate, err := time.ParseInLocation(scamDateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, invalid("scam_date", "must be a date in YYYY-MM-DD format")
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if scamDate.After(today) {
		return time.Time{}, invalid("scam_date", "cannot be in the future")
	}
	if scamDate.Before(s.cfg.ScamDateFloor) {
		return time.Time{}, invalid("scam_date", "cannot be before %s", s.cfg.ScamDateFloor.Format(scamDateLayout))
	}
	return scamDate, nil
}

func (s *IntakeService) readProof(proof *ProofUpload) ([]byte, *mimetype.MIME, error) {
	if proof.Content == nil {
		return nil, nil, invalid("proof", "is required")
	}
	if proof.Size > s.cfg.MaxProofBytes {
		return nil, nil, ErrPayloadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(proof.Content, s.cfg.MaxProofBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read proof: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxProofBytes {
		return nil, nil, ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return nil, nil, invalid("proof", "is empty")
	}

	mime := mimetype.Detect(data)
	if !acceptedMedia(mime) {
		return nil, nil, fmt.Errorf("%w (got %s)", ErrUnsupportedMediaType, mime.String())
	}
	return data, mime, nil
}

func acceptedMedia(mime *mimetype.MIME) bool {
	if mime.Is("application/pdf") {
		return true
	}
	for _, blocked := range scriptableMedia {
		if mime.Is(blocked) {
			return false
		}
	}
	for _, prefix := range acceptedMediaPrefixes {
		if strings.HasPrefix(mime.String(), prefix) {
			return true
		}
	}
	return false
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("request", "%s", err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), "is required")
	case "scamtype":
		return invalid(fe.Field(), "is not a recognized scam type")
	case "max":
		return invalid(fe.Field(), "must be at most %s characters", fe.Param())
	}
	return invalid(fe.Field(), "is invalid")
}
