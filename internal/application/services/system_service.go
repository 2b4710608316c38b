package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ntandostore/core/internal/ports"
)

// SystemService reports disk and process usage for the admin panel
type SystemService struct {
	store   ports.DocumentRepository
	catalog ports.BackupCatalog
	media   ports.MediaStore
	started time.Time
}

// NewSystemService creates a new system service; uptime counts from now
func NewSystemService(store ports.DocumentRepository, catalog ports.BackupCatalog, media ports.MediaStore) *SystemService {
	return &SystemService{
		store:   store,
		catalog: catalog,
		media:   media,
		started: time.Now(),
	}
}

// Info collects the current system figures
func (s *SystemService) Info(ctx context.Context) (*ports.SystemInfo, error) {
	dataSize, err := s.store.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to size data directory: %w", err)
	}
	uploadsSize, err := s.media.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to size upload directory: %w", err)
	}
	backups, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &ports.SystemInfo{
		DataDirSize:  humanize.Bytes(uint64(dataSize)),
		UploadsSize:  humanize.Bytes(uint64(uploadsSize)),
		BackupsCount: len(backups),
		Uptime:       time.Since(s.started).Seconds(),
		Memory: ports.MemoryUsage{
			Used:  mem.HeapAlloc,
			Total: mem.Sys,
		},
		GoVersion: runtime.Version(),
	}, nil
}
