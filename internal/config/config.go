package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/log"
)

type Config struct {
	// HTTP Server
	Port            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int

	// Backend selection
	DataBackend string

	// Local JSON document
	LedgerFilePath string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleOAuthClientFile    string
	GoogleOAuthTokenFile     string
	GoogleOAuthClientJSON    string
	GoogleOAuthTokenJSON     string

	// Ledger
	Categories     []string
	PaymentMethods []string
	CurrencyFormat string

	// Logging
	LogLevel  string
	LogFormat string
}

// Backends lists the accepted DATA_BACKEND values.
var Backends = []string{"memory", "sheets", "local", "sqlite"}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8081"),
		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxBodyBytes:    getEnvInt("MAX_BODY_BYTES", 64<<10),

		DataBackend: getEnv("DATA_BACKEND", "local"),

		LedgerFilePath: getEnv("LEDGER_FILE_PATH", "./data/gastos.json"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/gastos.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleOAuthClientFile:    getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:     getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON:    getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:     getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),

		Categories:     getEnvList("CATEGORIES", core.DefaultCategories),
		PaymentMethods: getEnvList("PAYMENT_METHODS", core.DefaultPaymentMethods),
		CurrencyFormat: getEnv("CURRENCY_FORMAT", string(core.FormatARS)),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// Sheets credentials are not checked here: a backend that cannot connect
// is reported as unavailable at runtime instead.
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ReadTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid read timeout %v: must be at least 1 second", c.ReadTimeout))
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if c.MaxBodyBytes < 1024 {
		errors = append(errors, fmt.Sprintf("invalid max body size %d: must be at least 1024 bytes", c.MaxBodyBytes))
	}

	// Validate data backend
	if !slices.Contains(Backends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, Backends))
	}

	switch c.DataBackend {
	case "sqlite":
		errors = append(errors, checkPath("SQLite database path", c.SQLiteDBPath)...)
	case "local":
		errors = append(errors, checkPath("ledger file path", c.LedgerFilePath)...)
	}

	if dup := firstDuplicate(c.Categories); dup != "" {
		errors = append(errors, fmt.Sprintf("duplicate category '%s'", dup))
	}
	if dup := firstDuplicate(c.PaymentMethods); dup != "" {
		errors = append(errors, fmt.Sprintf("duplicate payment method '%s'", dup))
	}

	if _, err := core.ParseCurrencyFormat(c.CurrencyFormat); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency format '%s': must be 'ars' or 'plain'", c.CurrencyFormat))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Taxonomy returns the configured category and payment method sets.
func (c *Config) Taxonomy() core.Taxonomy {
	return core.Taxonomy{
		Categories:     slices.Clone(c.Categories),
		PaymentMethods: slices.Clone(c.PaymentMethods),
	}
}

// Currency returns the configured currency format, defaulting to ars.
func (c *Config) Currency() core.CurrencyFormat {
	f, err := core.ParseCurrencyFormat(c.CurrencyFormat)
	if err != nil {
		return core.FormatARS
	}
	return f
}

// Logger builds the application logger from LOG_LEVEL and LOG_FORMAT,
// writing to out (stdout when nil).
func (c *Config) Logger(out io.Writer) *log.Logger {
	level, _ := log.ParseLevel(c.LogLevel)
	cfg := log.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.LogFormat
	if out != nil {
		cfg.Output = out
	}
	return log.New(cfg)
}

// checkPath verifies the parent directory of path exists or can be created.
func checkPath(what, path string) []string {
	if strings.TrimSpace(path) == "" {
		return []string{fmt.Sprintf("%s cannot be empty", what)}
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return []string{fmt.Sprintf("cannot create directory '%s' for %s: %v", dir, what, err)}
		}
	}
	return nil
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		k := strings.ToLower(v)
		if seen[k] {
			return v
		}
		seen[k] = true
	}
	return ""
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

// getEnvList splits a comma separated value. A value of "-" yields an empty
// list, which turns the matching field into free text.
func getEnvList(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return slices.Clone(defaultValue)
	}
	if strings.TrimSpace(value) == "-" {
		return []string{}
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
