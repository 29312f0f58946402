package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db       *gorm.DB
	svc      *AuthService
	mailer   *recordingMailer
	sessions *SessionIssuer
	clock    *fakeClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	mailer := &recordingMailer{}
	sessions := NewSessionIssuer("test-secret", "shopfront-api", 30*24*time.Hour, clock.Now)
	svc := NewAuthService(AuthServiceConfig{
		DB:          db,
		Tokens:      NewResetTokenManager(db, 10*time.Minute, clock.Now),
		Sessions:    sessions,
		Mailer:      mailer,
		FrontendURL: "http://shop.test/",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:         clock.Now,
	})
	return &authFixture{db: db, svc: svc, mailer: mailer, sessions: sessions, clock: clock}
}

func TestAuthRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, models.RegisterData{Name: " Ann ", Email: "Ann@Example.COM ", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, "Ann", res.User.Name)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEqual(t, "Secret123", res.User.Password)
	assert.NoError(t, utils.ComparePasswords(res.User.Password, "Secret123"))

	claims, err := f.sessions.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	welcome := f.mailer.last()
	assert.Equal(t, "ann@example.com", welcome.To)
	assert.Equal(t, utils.TemplateWelcome, welcome.Template)

	_, err = f.svc.Register(ctx, models.RegisterData{Name: "Ann", Email: "ANN@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthRegisterSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("smtp down")

	res, err := f.svc.Register(context.Background(), models.RegisterData{Name: "Ann", Email: "ann@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestAuthLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := createUser(t, f.db, "ann@example.com", "Secret123")

	res, err := f.svc.Login(ctx, " ANN@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	require.NotNil(t, res.User.LastLogin)

	var stored models.User
	require.NoError(t, f.db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.LastLogin)
	assert.WithinDuration(t, f.clock.Now(), *stored.LastLogin, time.Second)

	claims, err := f.sessions.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, err = f.svc.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	deactivate(t, f.db, user)
	_, err = f.svc.Login(ctx, "ann@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	createUser(t, f.db, "ann@example.com", "Secret123")

	require.NoError(t, f.svc.ForgotPassword(ctx, "Ann@example.com"))

	sent := f.mailer.last()
	assert.Equal(t, utils.TemplateResetPassword, sent.Template)
	require.True(t, strings.HasPrefix(sent.Data.ActionURL, "http://shop.test/reset-password/"), sent.Data.ActionURL)
	token := strings.TrimPrefix(sent.Data.ActionURL, "http://shop.test/reset-password/")
	assert.Equal(t, "10 minutes", sent.Data.ExpiresIn)

	require.NoError(t, f.svc.ResetPassword(ctx, token, "NewSecret1"))
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, token, "Another1"), ErrInvalidResetToken)

	_, err := f.svc.Login(ctx, "ann@example.com", "NewSecret1")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "ann@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.mailer.sent)
}

func TestAuthForgotPasswordRollsBackOnSendFailure(t *testing.T) {
	f := newAuthFixture(t)
	user := createUser(t, f.db, "ann@example.com", "Secret123")
	f.mailer.err = errors.New("smtp down")

	err := f.svc.ForgotPassword(context.Background(), "ann@example.com")
	assert.ErrorIs(t, err, ErrDispatchFailed)

	var stored models.User
	require.NoError(t, f.db.First(&stored, user.ID).Error)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestAuthUpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	ann := createUser(t, f.db, "ann@example.com", "Secret123")
	createUser(t, f.db, "bob@example.com", "Secret123")

	updated, err := f.svc.UpdateProfile(ctx, ann.ID, models.ProfileData{Name: "Annie", Email: "ANNIE@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "annie@example.com", updated.Email)

	_, err = f.svc.UpdateProfile(ctx, ann.ID, models.ProfileData{Email: "Bob@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	unchanged, err := f.svc.UpdateProfile(ctx, ann.ID, models.ProfileData{})
	require.NoError(t, err)
	assert.Equal(t, "annie@example.com", unchanged.Email)

	_, err = f.svc.UpdateProfile(ctx, 9999, models.ProfileData{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
