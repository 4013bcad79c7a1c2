package backend

import (
	"context"
	"fmt"

	"gastos/internal/ledger"
	"gastos/internal/ledger/google"
	"gastos/internal/ledger/local"
	"gastos/internal/ledger/memory"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// connectSheets is swapped in tests.
var connectSheets = func(ctx context.Context, cfg google.Config) (ledger.Store, error) {
	return google.Connect(ctx, cfg)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case LocalBackend:
		return f.createLocalBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to inspect SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, log.FieldEntries, count)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

// createSheetsBackend never fails: a connection error yields a store that
// reports itself unavailable on every operation.
func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := connectSheets(ctx, config.googleConfig())
	if err != nil {
		f.logger.Error("Google Sheets unavailable", log.FieldError, err)
		return &BackendResult{Store: ledger.Unavailable(string(SheetsBackend), err)}, nil
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createLocalBackend(config Config) (*BackendResult, error) {
	store := local.New(config.LedgerFilePath)

	f.logger.Info("Initialized local backend", "path", config.LedgerFilePath)

	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{Store: memory.New()}, nil
}
