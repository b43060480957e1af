// Package providers contains dependency injection providers for the gallery server.
package providers

import (
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/promptgallery/gallery-server/internal/config"
	"github.com/promptgallery/gallery-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig(os.Args[1:])
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   !cfg.IsProduction(),
		Environment: cfg.App.Environment,
	})
	slog.SetDefault(log)

	log.Info("Starting gallery server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.App.DataDir,
		"db_driver", cfg.Database.Driver,
	)

	return log, nil
}
