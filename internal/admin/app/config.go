package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
)

type Config struct {
	DatabaseFile   string        // Optional: path to SQLite database file (default: data/admin.db)
	PepperFile     string        // Optional: path to the password pepper (default: data/pepper)
	SessionKeyFile string        // Optional: path to the cookie signing key (default: data/session.key)
	SessionTTL     time.Duration // Optional: idle lifetime of a login (default: 12h)
	SessionIssuer  string        // Optional: iss claim of session cookies (default: backoffice)
	CookieSecure   bool          // Optional: mark the session cookie Secure (default: true outside dev)

	BootstrapEmail    string // Optional: admin created when the user table is empty
	BootstrapPassword string // Optional: password for BootstrapEmail

	LoginRateLimit httpx.RateLimitConfig // RATELIMIT_LOGIN_* (default: 5/min)
	TrustedProxies string                // Optional: CIDRs allowed to set X-Forwarded-For (default: none)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 1h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	return Config{
		DatabaseFile:   getEnvOrDefault("ADMIN_DATABASE_FILE", "data/admin.db"),
		PepperFile:     getEnvOrDefault("ADMIN_PEPPER_FILE", "data/pepper"),
		SessionKeyFile: getEnvOrDefault("ADMIN_SESSION_KEY_FILE", "data/session.key"),
		SessionTTL:     getEnvDurationOrDefault("ADMIN_SESSION_TTL", jwtx.DefaultSessionTTL),
		SessionIssuer:  getEnvOrDefault("ADMIN_SESSION_ISSUER", "backoffice"),
		CookieSecure:   getEnvBoolOrDefault("ADMIN_COOKIE_SECURE", env != "dev"),

		BootstrapEmail:    os.Getenv("ADMIN_BOOTSTRAP_EMAIL"),
		BootstrapPassword: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),

		LoginRateLimit: httpx.ParseRateLimitFromEnv("LOGIN", httpx.StrictLimit),
		TrustedProxies: os.Getenv("TRUSTED_PROXIES"),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
