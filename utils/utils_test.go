package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetEmail() Email {
	return Email{
		To:       "jane@example.com",
		Subject:  "Password Reset",
		Template: TemplateResetPassword,
		Data: EmailData{
			Name:      "Jane",
			Message:   "Use the link below to choose a new password.",
			ActionURL: "https://shop.example/reset-password/abc123",
			ExpiresIn: "10 minutes",
		},
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.NoError(t, ComparePasswords(hash, "Secret123"))
	assert.Error(t, ComparePasswords(hash, "secret123"))
}

func TestGenerateCodeAndHashToken(t *testing.T) {
	a, err := GenerateCode(32)
	require.NoError(t, err)
	b, err := GenerateCode(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)

	assert.Len(t, HashToken(a), 64)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, HashToken(a), HashToken(b))
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", HashToken("test"))
}

func TestProductImageKey(t *testing.T) {
	key := ProductImageKey(42, "Front View.JPG")
	assert.True(t, strings.HasPrefix(key, "products/42/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, ProductImageKey(42, "Front View.JPG"))
}

func TestRenderEmail(t *testing.T) {
	body, err := RenderEmail(resetEmail())
	require.NoError(t, err)
	assert.Contains(t, body, "Hello Jane,")
	assert.Contains(t, body, "https://shop.example/reset-password/abc123")
	assert.Contains(t, body, "10 minutes")

	welcome := Email{Template: TemplateWelcome, Data: EmailData{Name: "<b>Jane</b>"}}
	body, err = RenderEmail(welcome)
	require.NoError(t, err)
	assert.Contains(t, body, "&lt;b&gt;Jane&lt;/b&gt;")
	assert.NotContains(t, body, "Start shopping")

	_, err = RenderEmail(Email{Template: "missing.html"})
	assert.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		driver  string
		apiURL  string
		want    Mailer
		wantErr bool
	}{
		{driver: "", want: &LogMailer{}},
		{driver: "log", want: &LogMailer{}},
		{driver: "smtp", want: &SMTPMailer{}},
		{driver: "http", apiURL: "https://mail.example/send", want: &HTTPMailer{}},
		{driver: "http", wantErr: true},
		{driver: "pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			m, err := NewMailer(MailConfig{Driver: tt.driver, APIURL: tt.apiURL}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, m)
		})
	}
}

func TestHTTPMailerSend(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewHTTPMailer(MailConfig{From: "shop@example.com", APIURL: srv.URL, APIKey: "key-1"})
	require.NoError(t, m.Send(context.Background(), resetEmail()))

	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "shop@example.com", got["from"])
	assert.Equal(t, []any{"jane@example.com"}, got["to"])
	assert.Equal(t, "Password Reset", got["subject"])
	assert.Contains(t, got["html"], "reset-password/abc123")
}

func TestHTTPMailerSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := NewHTTPMailer(MailConfig{APIURL: srv.URL})
	err := m.Send(context.Background(), resetEmail())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestLogMailerSend(t *testing.T) {
	var buf bytes.Buffer
	m := &LogMailer{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	require.NoError(t, m.Send(context.Background(), resetEmail()))
	assert.Contains(t, buf.String(), `"to":"jane@example.com"`)
	assert.Contains(t, buf.String(), `"action_url":"https://shop.example/reset-password/REDACTED"`)
	assert.NotContains(t, buf.String(), "abc123")

	buf.Reset()
	welcome := Email{To: "jane@example.com", Template: TemplateWelcome, Data: EmailData{ActionURL: "https://shop.example/products"}}
	require.NoError(t, m.Send(context.Background(), welcome))
	assert.Contains(t, buf.String(), `"action_url":"https://shop.example/products"`)
}
