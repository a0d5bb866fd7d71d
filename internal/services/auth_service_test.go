package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/counter"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type authClock struct{ t time.Time }

func (c *authClock) now() time.Time { return c.t }

func newAuthFixture(t *testing.T) (*AuthService, *gorm.DB, *authClock) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        testSecret,
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		AdminEmails:      "Boss@Example.com, ops@example.com",
		LoginMaxFailures: 3,
		LoginLockout:     15 * time.Minute,
	}
	clock := &authClock{t: testutil.Now}
	failures := counter.NewMemoryCounter().WithClock(clock.now)
	return NewAuthService(db, cfg, failures), db, clock
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := auth.Register(ctx, &dto.RegisterRequest{Email: " Victim@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "victim@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "user", claims["role"])

	_, err = auth.Register(ctx, &dto.RegisterRequest{Email: "victim@example.com", Password: "another one"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := auth.Login(ctx, &dto.LoginRequest{Email: "VICTIM@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuth_RegisterValidation(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &dto.RegisterRequest{Email: "not-an-email", Password: "long enough"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = auth.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Password: "short"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestAuth_AdminEmailsPromoted(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	resp, err := auth.Register(context.Background(), &dto.RegisterRequest{Email: "boss@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestAuth_LockoutAfterRepeatedFailures(t *testing.T) {
	auth, _, clock := newAuthFixture(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, &dto.RegisterRequest{Email: "victim@example.com", Password: "correct horse"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := auth.Login(ctx, &dto.LoginRequest{Email: "victim@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "victim@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrAccountLocked)

	clock.t = clock.t.Add(16 * time.Minute)
	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "victim@example.com", Password: "correct horse"})
	assert.NoError(t, err)
}

func TestAuth_SuccessResetsFailures(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, &dto.RegisterRequest{Email: "victim@example.com", Password: "correct horse"})
	require.NoError(t, err)

	for round := 0; round < 2; round++ {
		for i := 0; i < 2; i++ {
			_, err := auth.Login(ctx, &dto.LoginRequest{Email: "victim@example.com", Password: "wrong"})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}
		_, err := auth.Login(ctx, &dto.LoginRequest{Email: "victim@example.com", Password: "correct horse"})
		require.NoError(t, err)
	}
}

func TestAuth_BannedUser(t *testing.T) {
	auth, db, _ := newAuthFixture(t)
	ctx := context.Background()
	resp, err := auth.Register(ctx, &dto.RegisterRequest{Email: "spammer@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = NewUserService(db).SetStatus(ctx, resp.User.ID, models.UserBanned)
	require.NoError(t, err)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "spammer@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUserBanned)

	_, err = auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()
	resp, err := auth.Register(ctx, &dto.RegisterRequest{Email: "victim@example.com", Password: "correct horse"})
	require.NoError(t, err)

	rotated, err := auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	_, err = auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, auth.Logout(ctx, &dto.LogoutRequest{RefreshToken: rotated.RefreshToken}))
	_, err = auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_RegisterLosingRaceReturnsEmailTaken(t *testing.T) {
	auth, db, _ := newAuthFixture(t)
	ctx := context.Background()

	// Another request inserts the same email between the lookup and the insert.
	var once sync.Once
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:concurrent_register", func(tx *gorm.DB) {
		if tx.Statement.Table != "users" {
			return
		}
		once.Do(func() {
			testutil.CreateUser(t, db, "race@example.com", models.RoleUser)
		})
	}))

	_, err := auth.Register(ctx, &dto.RegisterRequest{Email: "race@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "race@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuth_ConcurrentRegisterSameEmail(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Register(ctx, &dto.RegisterRequest{Email: "same@example.com", Password: "correct horse"})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailTaken)
	}
	assert.Equal(t, 1, ok)
}

func TestAuth_RefreshFailsWhenRevokeFails(t *testing.T) {
	auth, db, _ := newAuthFixture(t)
	ctx := context.Background()
	resp, err := auth.Register(ctx, &dto.RegisterRequest{Email: "victim@example.com", Password: "correct horse"})
	require.NoError(t, err)

	writeErr := errors.New("disk I/O error")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_revoke", func(tx *gorm.DB) {
		if tx.Statement.Table == "refresh_tokens" {
			_ = tx.AddError(writeErr)
		}
	}))

	_, err = auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
