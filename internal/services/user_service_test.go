package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SetRoleAndStatus(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "analyst@example.com", models.RoleUser)

	got, err := users.SetRole(ctx, user.ID, models.RoleExternal)
	require.NoError(t, err)
	assert.Equal(t, models.RoleExternal, got.Role)

	byEmail, err := users.GetByEmail(ctx, " Analyst@Example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleExternal, byEmail.Role)

	_, err = users.SetRole(ctx, user.ID, models.Role("root"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	_, err = users.SetStatus(ctx, user.ID, models.UserStatus("frozen"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	require.NoError(t, db.Create(&models.RefreshToken{UserID: user.ID, TokenHash: "h1", ExpiresAt: testutil.Now}).Error)
	got, err = users.SetStatus(ctx, user.ID, models.UserBanned)
	require.NoError(t, err)
	assert.Equal(t, models.UserBanned, got.Status)

	var live int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ? AND revoked = ?", user.ID, false).Count(&live).Error)
	assert.Zero(t, live)
}

func TestUserService_NotFound(t *testing.T) {
	users := NewUserService(testutil.NewDB(t))
	_, err := users.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
