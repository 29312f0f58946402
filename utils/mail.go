package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	TemplateResetPassword = "reset_password.html"
	TemplateWelcome       = "welcome.html"
)

type EmailData struct {
	Name      string
	Message   string
	ActionURL string
	ExpiresIn string
}

type Email struct {
	To       string
	Subject  string
	Template string
	Data     EmailData
}

// Mailer delivers rendered emails. Retries and timeouts belong to the implementation.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type MailConfig struct {
	Driver      string
	From        string
	Password    string
	SMTPHost    string
	SMTPAddress string
	APIURL      string
	APIKey      string
	Timeout     time.Duration
	RetryCount  int
}

// NewMailer picks the delivery backend named by cfg.Driver.
func NewMailer(cfg MailConfig, logger *slog.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "smtp":
		return &SMTPMailer{cfg: cfg}, nil
	case "http":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("mail driver http requires MAIL_API_URL")
		}
		return NewHTTPMailer(cfg), nil
	case "", "log":
		return &LogMailer{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

func RenderEmail(email Email) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, email.Template, email.Data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

type SMTPMailer struct {
	cfg MailConfig
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	body, err := RenderEmail(email)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		email.To,
		email.Subject,
		body,
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)

	errc := make(chan error, 1)
	go func() {
		errc <- smtp.SendMail(m.cfg.SMTPAddress, auth, m.cfg.From, []string{email.To}, []byte(message))
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

// HTTPMailer posts rendered mail to a transactional email API.
type HTTPMailer struct {
	client *resty.Client
	cfg    MailConfig
}

func NewHTTPMailer(cfg MailConfig) *HTTPMailer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &HTTPMailer{client: client, cfg: cfg}
}

func (m *HTTPMailer) Send(ctx context.Context, email Email) error {
	body, err := RenderEmail(email)
	if err != nil {
		return err
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"from":    m.cfg.From,
			"to":      []string{email.To},
			"subject": email.Subject,
			"html":    body,
		}).
		Post(m.cfg.APIURL)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api responded with status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// LogMailer writes the email to the log instead of delivering it.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "email not delivered (log driver)",
		"to", email.To,
		"subject", email.Subject,
		"template", email.Template,
		"action_url", redactActionURL(email.Data.ActionURL),
	)
	return nil
}

const resetPathMarker = "/reset-password/"

// redactActionURL hides the reset token carried in a reset link.
func redactActionURL(u string) string {
	if i := strings.Index(u, resetPathMarker); i >= 0 {
		return u[:i+len(resetPathMarker)] + "REDACTED"
	}
	return u
}
