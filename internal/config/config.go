package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables; the five required ones
// abort the run when missing, everything else has a default.
type Config struct {
	// Mailbox
	EmailAddress  string
	EmailPassword string
	IMAPServer    string
	IMAPPort      int
	Lookback      time.Duration

	// Classification
	GeminiAPIKey    string
	GeminiModel     string
	ClassifyTimeout time.Duration

	// Sheets sink
	ServiceAccountJSON string
	SpreadsheetID      string

	// Category cache
	CachePath    string
	CacheBackend string // "file" or "sqlite"

	// Optional BigQuery archive
	BigQueryProject string
	BigQueryDataset string

	// Optional audit upload
	AuditDir       string
	AuditGCSBucket string

	// Optional Notion mirror
	NotionToken      string
	NotionDatabaseID string
}

// Load reads configuration from environment variables.
// It returns an error listing the first missing required variable.
func Load() (*Config, error) {
	cfg := &Config{
		IMAPServer: getEnv("IMAP_SERVER", "imap.gmail.com"),
		IMAPPort:   getEnvInt("IMAP_PORT", 993),
		Lookback:   getEnvDuration("LOOKBACK", 25*time.Hour),

		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ClassifyTimeout: getEnvDuration("CLASSIFY_TIMEOUT", 30*time.Second),

		CachePath:    getEnv("CATEGORY_CACHE", ".category_cache.json"),
		CacheBackend: getEnv("CACHE_BACKEND", "file"),

		BigQueryProject: getEnv("BIGQUERY_PROJECT", ""),
		BigQueryDataset: getEnv("BIGQUERY_DATASET", "finance"),

		AuditDir:       getEnv("AUDIT_DIR", "unmatched"),
		AuditGCSBucket: getEnv("AUDIT_GCS_BUCKET", ""),

		NotionToken:      getEnv("NOTION_TOKEN", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),
	}

	var err error
	if cfg.EmailAddress, err = requireEnv("EMAIL_ADDRESS"); err != nil {
		return nil, err
	}
	if cfg.EmailPassword, err = requireEnv("EMAIL_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.GeminiAPIKey, err = requireEnv("GEMINI_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.ServiceAccountJSON, err = requireEnv("GOOGLE_SERVICE_ACCOUNT"); err != nil {
		return nil, err
	}
	if cfg.SpreadsheetID, err = requireEnv("SPREADSHEET_ID"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing required environment variable: %s", key)
	}
	return v, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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
