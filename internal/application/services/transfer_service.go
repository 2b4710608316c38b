package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

// maxImportSize bounds how much of an import file is read into memory
const maxImportSize = 32 << 20

// TransferService exports and imports the whole store
type TransferService struct {
	store   ports.DocumentRepository
	catalog ports.BackupCatalog
	media   ports.MediaStore
	product string
	version string
	now     func() time.Time
	logger  *logger.Logger
}

// NewTransferService creates a new transfer service. product prefixes
// export filenames and version is stamped into every envelope.
func NewTransferService(store ports.DocumentRepository, catalog ports.BackupCatalog, media ports.MediaStore, product, version string, appLogger *logger.Logger) *TransferService {
	return &TransferService{
		store:   store,
		catalog: catalog,
		media:   media,
		product: product,
		version: version,
		now:     time.Now,
		logger:  appLogger.WithComponent("transfer"),
	}
}

// Export writes a self-describing envelope of the store next to the backups
func (s *TransferService) Export(ctx context.Context) (*ports.ExportResult, error) {
	uploads, err := s.media.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect upload metadata: %w", err)
	}

	now := s.now().UTC()
	envelope := &entities.ExportEnvelope{
		Timestamp: now,
		Version:   s.version,
		Data:      s.store.Snapshot(ctx),
		Uploads:   uploads,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode export: %v", entities.ErrIO, err)
	}

	filename := fmt.Sprintf("%s-export-%d.json", s.product, now.UnixMilli())
	path, err := s.catalog.WriteExport(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Infow("Export created", "filename", filename, "uploads", len(uploads))
	return &ports.ExportResult{Filename: filename, Path: path, Envelope: envelope}, nil
}

// Import replaces the store with the data of an export envelope. Nothing
// changes unless the envelope parses and carries a data object.
func (s *TransferService) Import(ctx context.Context, src io.Reader) (*ports.SaveReport, error) {
	raw, err := io.ReadAll(io.LimitReader(src, maxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read import: %v", entities.ErrIO, err)
	}
	if len(raw) > maxImportSize {
		return nil, entities.ErrFileTooLarge
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidFormat, err)
	}

	doc, err := decodeDocument(envelope.Data)
	if err != nil {
		return nil, err
	}

	if err := snapshotCurrent(ctx, s.catalog, s.logger); err != nil {
		return nil, fmt.Errorf("failed to back up current data before import: %w", err)
	}

	report, err := s.store.Replace(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to import data: %w", err)
	}

	s.logger.Infow("Data imported", "services", len(doc.Services), "domains", len(doc.Domains), "contacts", len(doc.Contacts))
	return report, nil
}
