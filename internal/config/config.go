package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Auth
	AuthSecret        string
	SessionExpiry     time.Duration
	SessionUpdateAge  time.Duration
	PasswordHasher    string // "scrypt" or "bcrypt"
	SignUpDisabled    bool
	IPAddressHeaders  []string
	TrustedProxies    []string // CIDRs or addresses allowed to set IPAddressHeaders
	DisableIPTracking bool

	// Observability (optional)
	SentryDSN string

	// Storage: "s3" (AWS S3, R2, DO Spaces...), "minio" or "memory"
	StorageDriver string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional for s3, host:port for minio
	S3UseSSL      bool
}

func Load() *Config {
	loadDotEnv()
	driver, connection := database()

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Picture Gallery"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL, also used for Origin checks
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     driver,
		DBConnection: connection,

		// Auth
		AuthSecret:        envRequired("AUTH_SECRET"),
		SessionExpiry:     envDuration("SESSION_EXPIRY", 168*time.Hour),    // 7 days
		SessionUpdateAge:  envDuration("SESSION_UPDATE_AGE", 24*time.Hour), // refresh at most once a day
		PasswordHasher:    envString("PASSWORD_HASHER", "scrypt"),
		SignUpDisabled:    envBool("SIGNUP_DISABLED", false),
		IPAddressHeaders:  envList("IP_ADDRESS_HEADERS", []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}),
		TrustedProxies:    envList("TRUSTED_PROXIES", []string{"127.0.0.0/8", "::1"}),
		DisableIPTracking: envBool("DISABLE_IP_TRACKING", false),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "s3"),
		S3Region:      envString("S3_REGION", "auto"),
		S3Bucket:      envString("S3_BUCKET", "pictures"),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),
		S3UseSSL:      envBool("S3_USE_SSL", true),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// LoadDatabase reads only the database settings, for tools that do not
// need the rest of the environment (migrations).
func LoadDatabase() (driver, connection string) {
	loadDotEnv()
	return database()
}

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

func database() (driver, connection string) {
	driver = envString("DB_DRIVER", "sqlite")
	connection = envString("DB_CONNECTION", "./data/gallery.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite")
	return driver, connection
}

// validateProduction refuses settings that are only acceptable for local development.
func validateProduction(cfg *Config) {
	if len(cfg.AuthSecret) < 32 {
		slog.Error("production deployment requires AUTH_SECRET of at least 32 characters")
		os.Exit(1)
	}
	if cfg.StorageDriver == "memory" {
		slog.Error("production deployment cannot use STORAGE_DRIVER=memory",
			"hint", "set STORAGE_DRIVER=s3 or STORAGE_DRIVER=minio")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList reads a comma separated list, dropping empty entries.
func envList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		SignUpDisabled: c.SignUpDisabled,
		StorageDriver:  c.StorageDriver,
	}
}
