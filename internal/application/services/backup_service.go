package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

// BackupService exposes the backup catalog to the admin surface
type BackupService struct {
	catalog ports.BackupCatalog
	store   ports.DocumentRepository
	logger  *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(catalog ports.BackupCatalog, store ports.DocumentRepository, appLogger *logger.Logger) *BackupService {
	return &BackupService{
		catalog: catalog,
		store:   store,
		logger:  appLogger.WithComponent("backup"),
	}
}

// Create snapshots the current data file
func (s *BackupService) Create(ctx context.Context) (*entities.BackupInfo, error) {
	info, err := s.catalog.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup: %w", err)
	}
	return info, nil
}

// List returns the snapshots newest first
func (s *BackupService) List(ctx context.Context) ([]entities.BackupInfo, error) {
	list, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return list, nil
}

// Download resolves a snapshot name to a file path
func (s *BackupService) Download(ctx context.Context, name string) (string, error) {
	return s.catalog.Resolve(ctx, name)
}

// Restore replaces the store with a snapshot. The snapshot is read before the
// pre-restore backup is taken, so pruning cannot remove it first.
func (s *BackupService) Restore(ctx context.Context, name string) (*ports.SaveReport, error) {
	data, err := s.catalog.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	if err := snapshotCurrent(ctx, s.catalog, s.logger); err != nil {
		return nil, fmt.Errorf("failed to back up current data before restore: %w", err)
	}

	report, err := s.store.Replace(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}

	s.logger.Infow("Backup restored", "filename", name)
	return report, nil
}

// Prune deletes snapshots beyond the retention limit
func (s *BackupService) Prune(ctx context.Context) ([]string, error) {
	removed, err := s.catalog.Prune(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to prune backups: %w", err)
	}
	return removed, nil
}

// snapshotCurrent backs up the data file ahead of a wholesale replacement.
// A store that has never been written has nothing to back up.
func snapshotCurrent(ctx context.Context, catalog ports.BackupCatalog, appLogger *logger.Logger) error {
	info, err := catalog.Create(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrNoDataFile) {
			appLogger.Infow("No data file yet, skipping safety backup")
			return nil
		}
		return err
	}
	appLogger.Infow("Safety backup created", "filename", info.Filename)
	return nil
}

// decodeDocument parses a stored document; the top level must be an object
func decodeDocument(data []byte) (*entities.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, entities.ErrInvalidFormat
	}

	var doc entities.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidFormat, err)
	}
	doc.Normalize()
	return &doc, nil
}
