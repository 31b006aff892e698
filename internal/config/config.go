package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Google Calendar
	GoogleCalendarID   string
	CalendarWindowDays int

	// Snapshot cache
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration

	// Write path
	AppendRetries    int
	AppendRetryDelay time.Duration

	// Archive database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Backend selection
	DataBackend string

	// Tab name overrides, logical table name -> sheet tab.
	Tabs map[string]string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", ""),
		CalendarWindowDays: getEnvInt("CALENDAR_WINDOW_DAYS", 60),

		CacheTTL:             getEnvDuration("CACHE_TTL", 10*time.Minute),
		CacheCleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),

		AppendRetries:    getEnvInt("APPEND_RETRIES", 5),
		AppendRetryDelay: getEnvDuration("APPEND_RETRY_DELAY", 300*time.Millisecond),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/gagyebu.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "gagyebu"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "archive_entries"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		Tabs: loadTabOverrides(),
	}

	return cfg
}

// loadTabOverrides reads TAB_<TABLE> variables so a household can rename its
// sheet tabs without code changes.
func loadTabOverrides() map[string]string {
	tables := []string{"expenses", "income", "fixed_costs", "schedule", "loans", "mission", "budget_plan"}
	tabs := make(map[string]string)
	for _, name := range tables {
		envKey := "TAB_" + strings.ToUpper(name)
		if v := os.Getenv(envKey); v != "" {
			tabs[name] = v
		}
	}
	return tabs
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "GOOGLE_SPREADSHEET_ID is required when using the sheets backend")
		}
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for the sheets backend")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.CalendarWindowDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid calendar window %d days: must be at least 1", c.CalendarWindowDays))
	} else if c.CalendarWindowDays > 366 {
		errors = append(errors, fmt.Sprintf("invalid calendar window %d days: must be at most 366", c.CalendarWindowDays))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheCleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CacheCleanupInterval))
	}

	if c.AppendRetries < 1 || c.AppendRetries > 20 {
		errors = append(errors, fmt.Sprintf("invalid append retries %d: must be between 1 and 20", c.AppendRetries))
	}
	if c.AppendRetryDelay < 10*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid append retry delay %v: must be at least 10ms", c.AppendRetryDelay))
	}

	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create archive database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
