package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxContactMessageLength = 2000

var ErrContactNotFound = errors.New("contact message not found")

type ContactService struct {
	db       *gorm.DB
	files    storage.ProofStore
	maxBytes int64
	now      func() time.Time
}

func NewContactService(db *gorm.DB, files storage.ProofStore, maxBytes int64) *ContactService {
	return &ContactService{db: db, files: files, maxBytes: maxBytes, now: time.Now}
}

// Submit stores a contact message. The attachment is optional but, when
// present, obeys the same size and media rules as report proofs.
func (s *ContactService) Submit(ctx context.Context, userID uuid.UUID, message string, attachment *ProofUpload) (*models.ContactMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("message", "is required")
	}
	if len(message) > maxContactMessageLength {
		return nil, invalid("message", "must be at most %d characters", maxContactMessageLength)
	}

	msg := &models.ContactMessage{
		UserID:      userID,
		Message:     message,
		SubmittedAt: s.now().UTC(),
	}

	if attachment != nil && attachment.Content != nil {
		if attachment.Size > s.maxBytes {
			return nil, ErrPayloadTooLarge
		}
		data, err := io.ReadAll(io.LimitReader(attachment.Content, s.maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		if int64(len(data)) > s.maxBytes {
			return nil, ErrPayloadTooLarge
		}
		mime := mimetype.Detect(data)
		if !acceptedMedia(mime) {
			return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedMediaType, mime.String())
		}
		key := "contact/" + uuid.NewString() + mime.Extension()
		if err := s.files.Put(ctx, key, mime.String(), data); err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		msg.AttachmentKey = key
		msg.AttachmentContentType = mime.String()
	}

	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		if msg.AttachmentKey != "" {
			if delErr := s.files.Delete(ctx, msg.AttachmentKey); delErr != nil {
				slog.Error("failed to remove orphaned attachment", "key", msg.AttachmentKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	slog.Info("contact message received", "id", msg.ID, "user_id", userID.String())
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&models.ContactMessage{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}
	messages := make([]models.ContactMessage, 0)
	err := query.Scopes(repository.Paginate(limit, offset)).
		Order("submitted_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, total, nil
}

// OpenAttachment streams the file attached to contact message id.
func (s *ContactService) OpenAttachment(ctx context.Context, id uint) (io.ReadCloser, *models.ContactMessage, error) {
	var msg models.ContactMessage
	err := s.db.WithContext(ctx).First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrContactNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load contact message: %w", err)
	}
	if msg.AttachmentKey == "" {
		return nil, nil, ErrProofUnavailable
	}

	rc, err := s.files.Open(ctx, msg.AttachmentKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil, ErrProofUnavailable
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return rc, &msg, nil
}
