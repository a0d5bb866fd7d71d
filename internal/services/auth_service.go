package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/counter"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserBanned         = errors.New("account is banned")
	ErrAccountLocked      = errors.New("too many failed login attempts, try again later")
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	failures counter.Counter
}

func NewAuthService(db *gorm.DB, cfg *config.Config, failures counter.Counter) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		failures: failures,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func failureKey(email string) string {
	return "login_failures:" + email
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "must be a valid email address")
	}
	if len(req.Password) < 8 {
		return nil, invalid("password", "must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	for _, admin := range s.cfg.AdminEmailList() {
		if admin == email {
			role = models.RoleAdmin
		}
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Role:     role,
		Status:   models.UserActive,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	key := failureKey(email)

	failures, err := s.failures.Get(ctx, key)
	if err != nil {
		slog.Error("failed to read login failures", "error", err)
	}
	if failures >= int64(s.cfg.LoginMaxFailures) {
		return nil, ErrAccountLocked
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}

	if user.Status == models.UserBanned {
		return nil, ErrUserBanned
	}

	if err := s.failures.Reset(ctx, key); err != nil {
		slog.Error("failed to reset login failures", "error", err)
	}
	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	n, err := s.failures.Incr(ctx, key, s.cfg.LoginLockout)
	if err != nil {
		slog.Error("failed to record login failure", "error", err)
		return
	}
	if n == int64(s.cfg.LoginMaxFailures) {
		slog.Warn("login locked out", "key", key, "lockout", s.cfg.LoginLockout.String())
	}
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	// Only the caller that flips revoked may rotate the token.
	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.Status == models.UserBanned {
		return nil, ErrUserBanned
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(user.Role),
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
