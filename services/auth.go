package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Kariqs/shopfront-api/metrics"
	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/utils"
	"gorm.io/gorm"
)

type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	db          *gorm.DB
	tokens      *ResetTokenManager
	sessions    *SessionIssuer
	mailer      utils.Mailer
	frontendURL string
	logger      *slog.Logger
	now         func() time.Time
}

type AuthServiceConfig struct {
	DB          *gorm.DB
	Tokens      *ResetTokenManager
	Sessions    *SessionIssuer
	Mailer      utils.Mailer
	FrontendURL string
	Logger      *slog.Logger
	Now         func() time.Time
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AuthService{
		db:          cfg.DB,
		tokens:      cfg.Tokens,
		sessions:    cfg.Sessions,
		mailer:      cfg.Mailer,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
}

// Register creates a user account and signs them in. The email must not be
// in use under any letter case.
func (s *AuthService) Register(ctx context.Context, data models.RegisterData) (*AuthResult, error) {
	result := "success"
	defer func() { metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc() }()

	email := models.NormalizeEmail(data.Email)
	taken, err := s.emailTaken(ctx, email, 0)
	if err != nil {
		result = "error"
		return nil, err
	}
	if taken {
		result = "duplicate"
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(data.Password)
	if err != nil {
		result = "error"
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(data.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			result = "duplicate"
			return nil, ErrEmailTaken
		}
		result = "error"
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		result = "error"
		return nil, err
	}

	welcome := utils.Email{
		To:       user.Email,
		Subject:  "Welcome to Shopfront",
		Template: utils.TemplateWelcome,
		Data: utils.EmailData{
			Name:      user.Name,
			Message:   "Thank you for creating an account.",
			ActionURL: s.frontendURL,
		},
	}
	if err := s.mailer.Send(ctx, welcome); err != nil {
		s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "error", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login checks credentials and issues a session token. Unknown emails,
// inactive accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	result := "success"
	defer func() { metrics.AuthLoginsTotal.WithLabelValues(result).Inc() }()

	user, err := s.findByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		result = "failure"
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		result = "error"
		return nil, err
	}
	if !user.IsActive || utils.ComparePasswords(user.Password, password) != nil {
		result = "failure"
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(user).Update("last_login", now).Error; err != nil {
		s.logger.WarnContext(ctx, "could not record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		result = "error"
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ForgotPassword issues a reset token and emails the link. When the email
// cannot be sent the token is cleared again and ErrDispatchFailed is returned.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	result := "sent"
	defer func() { metrics.PasswordResetsTotal.WithLabelValues("request", result).Inc() }()

	user, err := s.findByEmail(ctx, models.NormalizeEmail(email))
	if err == nil && !user.IsActive {
		err = ErrUserNotFound
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			result = "unknown_email"
		} else {
			result = "error"
		}
		return err
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		result = "error"
		return err
	}

	msg := utils.Email{
		To:       user.Email,
		Subject:  "Reset your password",
		Template: utils.TemplateResetPassword,
		Data: utils.EmailData{
			Name:      user.Name,
			Message:   "You requested a password reset. Click the button below to choose a new password.",
			ActionURL: s.frontendURL + "/reset-password/" + token,
			ExpiresIn: fmt.Sprintf("%d minutes", int(s.tokens.TTL().Minutes())),
		},
	}
	if sendErr := s.mailer.Send(ctx, msg); sendErr != nil {
		result = "dispatch_failed"
		s.logger.ErrorContext(ctx, "password reset email failed", "user_id", user.ID, "error", sendErr)
		if err := s.tokens.Revoke(context.WithoutCancel(ctx), user, token); err != nil {
			s.logger.ErrorContext(ctx, "could not clear reset token after failed send", "user_id", user.ID, "error", err)
		}
		return fmt.Errorf("%w: %w", ErrDispatchFailed, sendErr)
	}

	s.logger.InfoContext(ctx, "password reset email sent", "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	err := s.tokens.Consume(ctx, token, password)
	switch {
	case err == nil:
		metrics.PasswordResetsTotal.WithLabelValues("consume", "success").Inc()
	case errors.Is(err, ErrInvalidResetToken):
		metrics.PasswordResetsTotal.WithLabelValues("consume", "invalid").Inc()
	default:
		metrics.PasswordResetsTotal.WithLabelValues("consume", "error").Inc()
	}
	return err
}

// UpdateProfile changes a user's name and email. Empty fields are left as they are.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, data models.ProfileData) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(data.Name); name != "" {
		updates["name"] = name
	}
	if data.Email != "" {
		email := models.NormalizeEmail(data.Email)
		if email != user.Email {
			taken, err := s.emailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
			updates["email"] = email
		}
	}
	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	return &user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *AuthService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check existing user: %w", err)
	}
	return count > 0, nil
}
