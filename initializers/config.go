package initializers

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/shopfront-api/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	minResetTokenTTL = 10 * time.Minute
	maxResetTokenTTL = 15 * time.Minute
)

// RateRule allows Requests per Window for each client IP. Zero Requests disables the rule.
type RateRule struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type RateLimitConfig struct {
	Login          RateRule `yaml:"login"`
	Register       RateRule `yaml:"register"`
	ForgotPassword RateRule `yaml:"forgot_password"`
	General        RateRule `yaml:"general"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
	LogSQL bool   `yaml:"log_sql"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Issuer string        `yaml:"issuer"`
	TTL    time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Env              string        `yaml:"env"`
	Port             string        `yaml:"port"`
	APIPrefix        string        `yaml:"api_prefix"`
	LogLevel         string        `yaml:"log_level"`
	FrontendURL      string        `yaml:"frontend_url"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	MaskUnknownEmail bool          `yaml:"mask_unknown_email"`
	ResetTokenTTL    time.Duration `yaml:"reset_token_ttl"`
	CategoryCacheTTL time.Duration `yaml:"category_cache_ttl"`
	S3Bucket         string        `yaml:"s3_bucket"`

	Database  DatabaseConfig   `yaml:"database"`
	JWT       JWTConfig        `yaml:"jwt"`
	Mail      utils.MailConfig `yaml:"mail"`
	Redis     RedisConfig      `yaml:"redis"`
	RateLimit RateLimitConfig  `yaml:"rate_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		Env:              "development",
		Port:             "5000",
		APIPrefix:        "/api",
		LogLevel:         "info",
		FrontendURL:      "http://localhost:5173",
		CORSOrigins:      []string{"http://localhost:5173"},
		ResetTokenTTL:    10 * time.Minute,
		CategoryCacheTTL: time.Minute,
		Database: DatabaseConfig{
			Driver: "mysql",
		},
		JWT: JWTConfig{
			Issuer: "shopfront-api",
			TTL:    30 * 24 * time.Hour,
		},
		Mail: utils.MailConfig{
			Driver:  "smtp",
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Login:          RateRule{Requests: 5, Window: 15 * time.Minute},
			Register:       RateRule{Requests: 5, Window: 15 * time.Minute},
			ForgotPassword: RateRule{Requests: 3, Window: time.Hour},
			General:        RateRule{Requests: 100, Window: 15 * time.Minute},
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LoadConfig layers the optional YAML file, the .env file and the process
// environment over the defaults, later sources winning.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	LoadEnv()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}
}

func (c *Config) applyEnv() {
	c.Env = getenv("APP_ENV", c.Env)
	c.Port = getenv("PORT", c.Port)
	c.APIPrefix = getenv("API_PREFIX", c.APIPrefix)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.FrontendURL = getenv("FRONTEND_URL", c.FrontendURL)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	c.MaskUnknownEmail = getbool("MASK_UNKNOWN_EMAIL", c.MaskUnknownEmail)
	c.ResetTokenTTL = getdur("RESET_TOKEN_TTL", c.ResetTokenTTL)
	c.CategoryCacheTTL = getdur("CATEGORY_CACHE_TTL", c.CategoryCacheTTL)
	c.S3Bucket = getenv("S3_BUCKET", c.S3Bucket)

	c.Database.Driver = getenv("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getenv("DATABASE_URL", c.Database.URL)
	c.Database.LogSQL = getbool("DB_LOG_SQL", c.Database.LogSQL)

	c.JWT.Secret = getenv("JWT_SECRET", c.JWT.Secret)
	c.JWT.Issuer = getenv("JWT_ISSUER", c.JWT.Issuer)
	c.JWT.TTL = getdur("JWT_TTL", c.JWT.TTL)

	c.Mail.Driver = getenv("MAIL_DRIVER", c.Mail.Driver)
	c.Mail.From = getenv("FROM_EMAIL", c.Mail.From)
	c.Mail.Password = getenv("FROM_EMAIL_PASSWORD", c.Mail.Password)
	c.Mail.SMTPHost = getenv("FROM_EMAIL_SMTP", c.Mail.SMTPHost)
	c.Mail.SMTPAddress = getenv("SMTP_ADDRESS", c.Mail.SMTPAddress)
	c.Mail.APIURL = getenv("MAIL_API_URL", c.Mail.APIURL)
	c.Mail.APIKey = getenv("MAIL_API_KEY", c.Mail.APIKey)
	c.Mail.Timeout = getdur("MAIL_TIMEOUT", c.Mail.Timeout)
	c.Mail.RetryCount = getint("MAIL_RETRY_COUNT", c.Mail.RetryCount)

	c.Redis.Addr = getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getint("REDIS_DB", c.Redis.DB)

	c.RateLimit.Login = getrate("RATE_LIMIT_LOGIN", c.RateLimit.Login)
	c.RateLimit.Register = getrate("RATE_LIMIT_REGISTER", c.RateLimit.Register)
	c.RateLimit.ForgotPassword = getrate("RATE_LIMIT_FORGOT_PASSWORD", c.RateLimit.ForgotPassword)
	c.RateLimit.General = getrate("RATE_LIMIT_GENERAL", c.RateLimit.General)
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	switch c.Mail.Driver {
	case "", "log":
		if !c.IsDevelopment() {
			return fmt.Errorf("MAIL_DRIVER %q is only allowed in development", c.Mail.Driver)
		}
	}
	if c.ResetTokenTTL < minResetTokenTTL {
		c.ResetTokenTTL = minResetTokenTTL
	}
	if c.ResetTokenTTL > maxResetTokenTTL {
		c.ResetTokenTTL = maxResetTokenTTL
	}
	c.APIPrefix = "/" + strings.Trim(c.APIPrefix, "/")
	if c.APIPrefix == "/" {
		c.APIPrefix = ""
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("invalid bool, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid int, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

// getrate reads "requests/window", e.g. "5/15m".
func getrate(k string, def RateRule) RateRule {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	rule, err := ParseRateRule(v)
	if err != nil {
		slog.Warn("invalid rate rule, using default", "key", k, "value", v, "error", err)
		return def
	}
	return rule
}

func ParseRateRule(s string) (RateRule, error) {
	count, window, ok := strings.Cut(s, "/")
	if !ok {
		return RateRule{}, fmt.Errorf("rate rule %q: want requests/window", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n < 0 {
		return RateRule{}, fmt.Errorf("rate rule %q: bad request count", s)
	}
	d, err := time.ParseDuration(strings.TrimSpace(window))
	if err != nil || d <= 0 {
		return RateRule{}, fmt.Errorf("rate rule %q: bad window", s)
	}
	return RateRule{Requests: n, Window: d}, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
