package application

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ntandostore/core/internal/adapters/repository"
	"github.com/ntandostore/core/internal/application/services"
	"github.com/ntandostore/core/internal/infrastructure/config"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/infrastructure/metrics"
)

// App holds the wired storage layer and services
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Store   *repository.DocumentStore
	Backups *repository.BackupCatalog
	Media   *repository.MediaStore

	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Backup   *services.BackupService
	Transfer *services.TransferService
	Upload   *services.UploadService
	System   *services.SystemService
}

// New wires the application. Every successful write of the data file is
// followed by a backup snapshot and then an upload mirror, in that order.
func New(cfg *config.Config, appLogger *logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	backups, err := repository.NewBackupCatalog(cfg.Storage.BackupDir, cfg.Storage.DataFile, cfg.Storage.MaxBackups, appLogger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup catalog: %w", err)
	}

	media, err := repository.NewMediaStore(cfg.Storage.UploadDir, cfg.Storage.PermanentUploadDir, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open media store: %w", err)
	}

	store, err := repository.NewDocumentStore(cfg.Storage.DataFile, appLogger, m, backups, media)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}

	authService, err := services.NewAuthService(cfg.Admin, cfg.JWT, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	return &App{
		Config:   cfg,
		Logger:   appLogger,
		Registry: registry,
		Metrics:  m,

		Store:   store,
		Backups: backups,
		Media:   media,

		Auth:     authService,
		Catalog:  services.NewCatalogService(store, appLogger, m),
		Backup:   services.NewBackupService(backups, store, appLogger),
		Transfer: services.NewTransferService(store, backups, media, cfg.App.Product, cfg.App.Version, appLogger),
		Upload:   services.NewUploadService(store, media, cfg.Upload.MaxSize, cfg.Upload.URLPrefix, appLogger, m),
		System:   services.NewSystemService(store, backups, media),
	}, nil
}
