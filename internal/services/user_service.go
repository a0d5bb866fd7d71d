package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// SetStatus bans or reinstates a user. Banned users keep their reports.
func (s *UserService) SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be active or banned")
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	user.Status = status
	if status == models.UserBanned {
		s.db.WithContext(ctx).Model(&models.RefreshToken{}).
			Where("user_id = ?", id).
			Update("revoked", true)
	}
	slog.Info("user status changed", "user_id", id.String(), "status", string(status))
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, invalid("role", "must be user, admin or external")
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	user.Role = role
	slog.Info("user role changed", "user_id", id.String(), "role", string(role))
	return user, nil
}
