package config

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Google    GoogleConfig
	Mail      MailConfig
	RateLimit RateLimitConfig

	// SideEffectTimeout bounds each external grant/notify call.
	SideEffectTimeout time.Duration
	// TemplateFetchTimeout bounds remote template downloads.
	TemplateFetchTimeout time.Duration
}

// GoogleConfig carries the service-account identity used for the
// Directory, Drive and Gmail collaborators.
type GoogleConfig struct {
	CredentialsJSON string
	ClientEmail     string
	PrivateKey      string
	AdminEmail      string
}

// Configured reports whether any service-account credential is present.
func (g GoogleConfig) Configured() bool {
	return g.CredentialsJSON != "" || (g.ClientEmail != "" && g.PrivateKey != "")
}

type MailConfig struct {
	// Provider selects the outbound transport: gmail, smtp or noop.
	Provider     string
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	OrderRate     float64
	OrderBurst    int
}

// Module provides the loaded configuration to the fx graph.
var Module = fx.Provide(Load)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "superapp-admin"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "superapp"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Google: GoogleConfig{
			CredentialsJSON: strings.TrimSpace(getenv("GOOGLE_CREDENTIALS_JSON", "")),
			ClientEmail:     strings.TrimSpace(getenv("GOOGLE_CLIENT_EMAIL", "")),
			PrivateKey:      normalizePrivateKey(getenv("GOOGLE_PRIVATE_KEY", "")),
			AdminEmail:      strings.TrimSpace(getenv("GOOGLE_ADMIN_EMAIL", "")),
		},
		Mail: MailConfig{
			Provider:     strings.ToLower(getenv("MAIL_PROVIDER", "gmail")),
			From:         getenv("MAIL_FROM", ""),
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("REDIS_DB", 0),
			OrderRate:     getenvFloat("ORDER_RATE_LIMIT_RATE", 5),
			OrderBurst:    getenvInt("ORDER_RATE_LIMIT_BURST", 10),
		},

		SideEffectTimeout:    time.Duration(getenvInt("SIDE_EFFECT_TIMEOUT_SECONDS", 15)) * time.Second,
		TemplateFetchTimeout: time.Duration(getenvInt("TEMPLATE_FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Google.AdminEmail
	}

	return cfg
}

// normalizePrivateKey accepts either a raw PEM with escaped newlines or a
// base64-encoded PEM ("LS0t" prefix) and returns usable PEM text.
func normalizePrivateKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "LS0t") {
		if decoded, err := base64.StdEncoding.DecodeString(key); err == nil {
			return string(decoded)
		}
	}
	return strings.ReplaceAll(key, `\n`, "\n")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
