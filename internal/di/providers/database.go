package providers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/store"
	"github.com/promptgallery/gallery-server/internal/store/postgres"
	"github.com/promptgallery/gallery-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Database.DSN, log)
		if err != nil {
			return nil, err
		}
		log.Info("Database initialized", "driver", cfg.Database.Driver)
		return &StoreHandle{Store: db}, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		db, err := sqlite.Open(cfg.Database.Path, log)
		if err != nil {
			return nil, err
		}
		log.Info("Database initialized", "driver", cfg.Database.Driver, "path", cfg.Database.Path)
		return &StoreHandle{Store: db}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}
