package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/utils"
	"gorm.io/gorm"
)

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 32

// ResetTokenManager issues and consumes single-use password reset tokens.
// Only the SHA-256 of a token is stored on the user row.
type ResetTokenManager struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewResetTokenManager(db *gorm.DB, ttl time.Duration, now func() time.Time) *ResetTokenManager {
	if now == nil {
		now = time.Now
	}
	return &ResetTokenManager{db: db, ttl: ttl, now: now}
}

func (m *ResetTokenManager) TTL() time.Duration { return m.ttl }

// Issue stores a fresh token hash and expiry on user and returns the plaintext.
// A later Issue for the same user replaces the earlier token.
func (m *ResetTokenManager) Issue(ctx context.Context, user *models.User) (string, error) {
	token, err := utils.GenerateCode(resetTokenBytes)
	if err != nil {
		return "", err
	}

	hash := utils.HashToken(token)
	expires := m.now().UTC().Add(m.ttl)

	result := m.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"reset_password_token":  hash,
			"reset_password_expire": expires,
		})
	if result.Error != nil {
		return "", fmt.Errorf("save reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", ErrUserNotFound
	}

	user.ResetPasswordToken = &hash
	user.ResetPasswordExpire = &expires
	return token, nil
}

// Revoke clears the reset fields if they still hold token. A newer token
// issued concurrently is left alone.
func (m *ResetTokenManager) Revoke(ctx context.Context, user *models.User, token string) error {
	err := m.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_password_token = ?", user.ID, utils.HashToken(token)).
		Updates(map[string]any{
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil
	return nil
}

// Consume sets newPassword for the user holding token when the token is
// unexpired, and clears it in the same statement so it works at most once.
// Wrong, expired and already used tokens all return ErrInvalidResetToken.
func (m *ResetTokenManager) Consume(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	result := m.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_password_token = ? AND reset_password_expire > ?", utils.HashToken(token), m.now().UTC()).
		Updates(map[string]any{
			"password":              hashedPassword,
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("reset password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidResetToken
	}
	return nil
}
