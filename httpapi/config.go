package httpapi

import (
	"log/slog"
	"os"
	"strconv"
)

// Paging and truncation bounds for the reports endpoints.
const (
	// DefaultPageSize is the page size used when the client sends no limit.
	DefaultPageSize int32 = 50
	// MaxPageSize caps the client-requested limit.
	MaxPageSize int32 = 200
	// TruncateBytes bounds persisted markdown and serialized finding lists.
	TruncateBytes = 60_000

	// maxRequestBodyBytes caps the POST body read into memory.
	maxRequestBodyBytes = 10 * 1024 * 1024
)

// Config holds all adapter settings. Loaded once at startup from
// environment variables via LoadConfig().
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string

	// ReportsTable is the target table for persisted reports.
	ReportsTable string
	// WaitlistTable is the target table for waitlist entries.
	WaitlistTable string
	// ConnectionString holds the table service credentials.
	ConnectionString string

	// AdminToken enables the GET endpoints. Empty means GET always 403s.
	AdminToken string
	// IngestToken, when set, is required on POST /reports.
	IngestToken string

	// Debug includes error messages in 500 responses.
	Debug bool
}

// LoadConfig reads configuration from REPORTS_* environment variables.
// The storage connection string falls back to AzureWebJobsStorage, matching
// the reference deployment.
func LoadConfig() *Config {
	return &Config{
		ListenAddr:       envString("REPORTS_LISTEN_ADDR", ":8080"),
		ReportsTable:     envString("REPORTS_TABLE_NAME", "reports"),
		WaitlistTable:    envString("WAITLIST_TABLE_NAME", "waitlist"),
		ConnectionString: envString("REPORTS_STORAGE_CONNECTION_STRING", os.Getenv("AzureWebJobsStorage")),
		AdminToken:       os.Getenv("REPORTS_ADMIN_TOKEN"),
		IngestToken:      os.Getenv("REPORTS_INGEST_TOKEN"),
		Debug:            envBool("REPORTS_DEBUG", false),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

// clampPageSize parses a limit query value, applying the default and cap.
func clampPageSize(raw string) int32 {
	if raw == "" {
		return DefaultPageSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if int32(n) > MaxPageSize {
		return MaxPageSize
	}
	return int32(n)
}
