// Package cli provides the initialization and output helpers shared by the
// gastos subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"

	"gastos/internal/backend"
	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/services"
)

// LoadEnvFile loads a .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// SetupLogger builds the logger described by cfg, writing to out, and
// installs it as the process default.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	logger := cfg.Logger(out)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Ledger bundles the service a command works with and the backend
// resources that must be released afterwards.
type Ledger struct {
	*services.LedgerService
	Config *config.Config
	Logger *log.Logger

	backend *backend.BackendResult
}

// Close releases the backend.
func (l *Ledger) Close() error {
	return l.backend.Close()
}

// OpenLedger connects the configured backend and wraps it in a
// LedgerService. A sheets backend that cannot connect still yields a
// ledger whose operations fail as unavailable.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Ledger, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}

	svc := services.NewLedgerService(result.Store,
		services.WithTaxonomy(cfg.Taxonomy()),
		services.WithCurrencyFormat(cfg.Currency()),
		services.WithLogger(logger),
	)
	return &Ledger{LedgerService: svc, Config: cfg, Logger: logger, backend: result}, nil
}

// Bootstrap loads .env and the configuration, sets up logging to logOut
// and opens the configured ledger.
func Bootstrap(ctx context.Context, logOut io.Writer) (*Ledger, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	return OpenLedger(ctx, cfg, SetupLogger(cfg, logOut))
}

// GracefulShutdown blocks until ctx is cancelled, then runs shutdown with
// a fresh context bounded by timeout.
func GracefulShutdown(ctx context.Context, logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) error {
	<-ctx.Done()
	logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Shutdown timeout reached", "timeout", timeout)
		}
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
