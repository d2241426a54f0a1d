package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings loaded from the environment
type Config struct {
	// HTTP
	ListenAddr     string // host:port for the API server
	AllowedOrigins []string

	// Database
	DBDriver string // "sqlite3" or "postgres"
	DBPath   string // sqlite file path
	DBURL    string // postgres connection string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration
	// Users signing up with one of these e-mails get the admin role
	AdminEmails []string

	// Sessions
	DefaultSessionSize int
	MaxSessionSize     int

	// Reminders
	SchedulerEnabled  bool
	ReminderStartHour int
	ReminderEndHour   int
	TelegramToken     string
}

// Load reads configuration from the environment. A .env file is picked up
// when present but is not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		DBDriver:           getEnv("DB_DRIVER", "sqlite3"),
		DBPath:             getEnv("DB_PATH", "data/quizdeck.db"),
		DBURL:              os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 24*time.Hour),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		DefaultSessionSize: getEnvInt("DEFAULT_SESSION_SIZE", 20),
		MaxSessionSize:     getEnvInt("MAX_SESSION_SIZE", 100),
		SchedulerEnabled:   getEnv("ENABLE_SCHEDULER", "true") != "false",
		ReminderStartHour:  getEnvInt("REMINDER_START_HOUR", 8),
		ReminderEndHour:    getEnvInt("REMINDER_END_HOUR", 22),
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
	if cfg.DBDriver == "postgres" && cfg.DBURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.DefaultSessionSize < 1 || cfg.DefaultSessionSize > cfg.MaxSessionSize {
		return nil, fmt.Errorf("DEFAULT_SESSION_SIZE must be between 1 and %d", cfg.MaxSessionSize)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
