package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gastos/internal/core"
)

func validConfig() Config {
	return Config{
		Port:            "8081",
		ReadTimeout:     15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    64 << 10,
		DataBackend:     "memory",
		Categories:      []string{"Alimentos", "Transporte"},
		PaymentMethods:  []string{"Efectivo", "BBVA"},
		CurrencyFormat:  "ars",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid sheets backend without credentials",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			mutate: func(c *Config) {
				c.Port = "abc"
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range high",
			mutate: func(c *Config) {
				c.Port = "70000"
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid data backend",
			mutate: func(c *Config) {
				c.DataBackend = "postgres"
			},
			wantErr:     true,
			errorString: "invalid data backend 'postgres': must be one of [memory sheets local sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "local backend missing file path",
			mutate: func(c *Config) {
				c.DataBackend = "local"
				c.LedgerFilePath = " "
			},
			wantErr:     true,
			errorString: "ledger file path cannot be empty",
		},
		{
			name: "duplicate category",
			mutate: func(c *Config) {
				c.Categories = []string{"Hogar", "hogar"}
			},
			wantErr:     true,
			errorString: "duplicate category 'hogar'",
		},
		{
			name: "unknown currency format",
			mutate: func(c *Config) {
				c.CurrencyFormat = "eur"
			},
			wantErr:     true,
			errorString: "invalid currency format 'eur'",
		},
		{
			name: "bad log settings",
			mutate: func(c *Config) {
				c.LogLevel = "loud"
				c.LogFormat = "xml"
			},
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name: "short timeouts",
			mutate: func(c *Config) {
				c.ShutdownTimeout = time.Millisecond
			},
			wantErr:     true,
			errorString: "invalid shutdown timeout 1ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want substring %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.DataBackend = "nope"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 3 {
		t.Errorf("expected 3 collected errors, got %d: %v", got, err)
	}
}

func TestConfig_ValidateCreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := validConfig()
	cfg.DataBackend = "local"
	cfg.LedgerFilePath = filepath.Join(dir, "gastos.json")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory %s to be created: %v", dir, err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "LEDGER_FILE_PATH", "CATEGORIES", "PAYMENT_METHODS", "CURRENCY_FORMAT", "SHUTDOWN_TIMEOUT", "MAX_BODY_BYTES"} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "local" {
			t.Errorf("Load() DataBackend = %v, want local", cfg.DataBackend)
		}
		if cfg.LedgerFilePath != "./data/gastos.json" {
			t.Errorf("Load() LedgerFilePath = %v", cfg.LedgerFilePath)
		}
		if len(cfg.Categories) != len(core.DefaultCategories) {
			t.Errorf("Load() Categories = %v, want defaults", cfg.Categories)
		}
		if cfg.Currency() != core.FormatARS {
			t.Errorf("Load() currency = %v, want ars", cfg.Currency())
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "sheets")
		t.Setenv("CATEGORIES", " Comida, Viajes ,,")
		t.Setenv("PAYMENT_METHODS", "-")
		t.Setenv("CURRENCY_FORMAT", "plain")
		t.Setenv("SHUTDOWN_TIMEOUT", "45s")
		t.Setenv("MAX_BODY_BYTES", "4096")

		cfg := Load()

		if cfg.Port != "9090" || cfg.DataBackend != "sheets" {
			t.Errorf("Load() = %v/%v", cfg.Port, cfg.DataBackend)
		}
		tax := cfg.Taxonomy()
		if len(tax.Categories) != 2 || tax.Categories[1] != "Viajes" {
			t.Errorf("Load() Categories = %v", tax.Categories)
		}
		if len(tax.PaymentMethods) != 0 {
			t.Errorf("Load() PaymentMethods = %v, want free text", tax.PaymentMethods)
		}
		if cfg.Currency() != core.FormatPlain {
			t.Errorf("Load() currency = %v, want plain", cfg.Currency())
		}
		if cfg.ShutdownTimeout != 45*time.Second || cfg.MaxBodyBytes != 4096 {
			t.Errorf("Load() = %v/%v", cfg.ShutdownTimeout, cfg.MaxBodyBytes)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		t.Setenv("MAX_BODY_BYTES", "big")

		cfg := Load()

		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want default", cfg.ShutdownTimeout)
		}
		if cfg.MaxBodyBytes != 64<<10 {
			t.Errorf("Load() MaxBodyBytes = %v, want default", cfg.MaxBodyBytes)
		}
	})
}
