package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBUrl    string
	LogLevel string
	// Namespace for stored keys, e.g. "gfah" gives "gfah_contact_draft"
	AppPrefix string
	// Drafts
	DraftAutoSaveSeconds int
	DraftTTLHours        int
	DraftDir             string
	// Submission endpoint
	SubmitMode           string // "simulated" or "http"
	SubmitEndpoint       string
	SubmitDelayMillis    int
	SubmitFailureRate    float64
	SubmitTimeoutSeconds int
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitContactLimit  int
	RateLimitGlobalLimit   int
	AllowedOrigins         []string
	ReleaseMode            bool
}

const (
	SubmitModeSimulated = "simulated"
	SubmitModeHTTP      = "http"
)

func LoadConfig() (*Config, error) {
	// Load .env file when present (local development only)
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBUrl:     getEnv("DATABASE_URL", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		AppPrefix: getEnv("APP_PREFIX", "gfah"),
		// Drafts
		DraftAutoSaveSeconds: getEnvInt("DRAFT_AUTOSAVE_SECONDS", 10),
		DraftTTLHours:        getEnvInt("DRAFT_TTL_HOURS", 24*30),
		DraftDir:             getEnv("DRAFT_DIR", defaultDraftDir()),
		// Submission endpoint
		SubmitMode:           strings.ToLower(getEnv("SUBMIT_MODE", SubmitModeSimulated)),
		SubmitEndpoint:       strings.TrimRight(getEnv("SUBMIT_ENDPOINT", "http://localhost:8080/v1/contact"), "/"),
		SubmitDelayMillis:    getEnvInt("SUBMIT_DELAY_MS", 2000),
		SubmitFailureRate:    getEnvFloat("SUBMIT_FAILURE_RATE", 0.05),
		SubmitTimeoutSeconds: getEnvInt("SUBMIT_TIMEOUT_SECONDS", 15),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", "noreply@example.com"),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", "advisors@example.com"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitContactLimit:  getEnvInt("RATE_LIMIT_CONTACT_LIMIT", 5),
		RateLimitGlobalLimit:   getEnvInt("RATE_LIMIT_GLOBAL_LIMIT", 100),
		AllowedOrigins:         getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		ReleaseMode:            getEnv("GIN_MODE", "") == "release",
	}

	if cfg.SubmitFailureRate < 0 || cfg.SubmitFailureRate > 1 {
		log.Printf("WARNING: SUBMIT_FAILURE_RATE %v out of range, using 0.05", cfg.SubmitFailureRate)
		cfg.SubmitFailureRate = 0.05
	}
	if cfg.DraftAutoSaveSeconds <= 0 {
		cfg.DraftAutoSaveSeconds = 10
	}

	return cfg, nil
}

// DraftKey is the fixed, namespaced key drafts are stored under.
func (c *Config) DraftKey() string {
	return c.AppPrefix + "_contact_draft"
}

func (c *Config) DraftAutoSaveInterval() time.Duration {
	return time.Duration(c.DraftAutoSaveSeconds) * time.Second
}

func (c *Config) DraftTTL() time.Duration {
	return time.Duration(c.DraftTTLHours) * time.Hour
}

func (c *Config) SubmitDelay() time.Duration {
	return time.Duration(c.SubmitDelayMillis) * time.Millisecond
}

func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSeconds) * time.Second
}

func defaultDraftDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".drafts"
	}
	return dir + string(os.PathSeparator) + "advisory-contact"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvFloat returns a float environment variable or fallback if not set/invalid
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
