package testutil

import (
	"bytes"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Now is the fixed instant tests use as "today".
var Now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// JPEG returns size bytes that sniff as image/jpeg.
func JPEG(size int) []byte {
	return withMagic([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, size)
}

// PDF returns size bytes that sniff as application/pdf.
func PDF(size int) []byte {
	return withMagic([]byte("%PDF-1.4\n"), size)
}

// Text returns size bytes of plain text.
func Text(size int) []byte {
	return bytes.Repeat([]byte("a"), size)
}

func withMagic(magic []byte, size int) []byte {
	if size < len(magic) {
		size = len(magic)
	}
	buf := make([]byte, size)
	copy(buf, magic)
	return buf
}

// CreateUser inserts an active user with the given role.
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "x",
		Role:     role,
		Status:   models.UserActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateReport inserts a report for userID directly, bypassing intake.
func CreateReport(t testing.TB, db *gorm.DB, userID uuid.UUID, status models.ReportStatus) *models.Report {
	t.Helper()
	report := &models.Report{
		UserID:           userID,
		ScamType:         models.ScamPhishing,
		Description:      "fake bank text message",
		ScamDate:         time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		ProofKey:         "proofs/" + uuid.NewString() + ".jpg",
		ProofContentType: "image/jpeg",
		ProofSize:        1024,
		Status:           status,
		Version:          1,
		SubmittedAt:      Now,
		LastModified:     Now,
	}
	if status.RequiresComment() {
		comment := "seeded"
		report.AdminComments = &comment
	}
	require.NoError(t, db.Create(report).Error)
	return report
}

// Token signs an access token the way the auth service does.
func Token(t testing.TB, secret string, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
