package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/infrastructure/metrics"
)

const (
	backupPrefix     = "admin-data-backup-"
	backupSuffix     = ".json"
	latestBackupName = "latest-backup.json"
	backupIndexName  = "backup-index.json"

	// ISO-8601 with ':' and '.' replaced by '-', e.g. 2026-10-15T12-30-45-123Z
	backupTimeLayout = "2006-01-02T15-04-05"
	backupStampLen   = len(backupTimeLayout) + len("-000Z")
)

// backupIndex records when each snapshot was taken, so ordering never
// depends on how file names sort.
type backupIndex struct {
	Backups map[string]time.Time `json:"backups"`
}

// BackupCatalog manages timestamped copies of the data file
type BackupCatalog struct {
	mu      sync.Mutex
	dir     string
	source  string
	keep    int
	now     func() time.Time
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewBackupCatalog creates a catalog in dir for copies of source, keeping
// the newest keep snapshots.
func NewBackupCatalog(dir, source string, keep int, appLogger *logger.Logger, m *metrics.Metrics) (*BackupCatalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create backup directory: %v", entities.ErrIO, err)
	}
	if keep < 1 {
		keep = 1
	}

	c := &BackupCatalog{
		dir:     dir,
		source:  source,
		keep:    keep,
		now:     time.Now,
		logger:  appLogger.WithComponent("backup_catalog"),
		metrics: m,
	}
	if list, err := c.List(context.Background()); err == nil {
		c.metrics.SetBackups(len(list))
	}
	return c, nil
}

// SetClock replaces the time source used to stamp new snapshots
func (c *BackupCatalog) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Dir returns the backup directory
func (c *BackupCatalog) Dir() string {
	return c.dir
}

// Name implements ports.SaveStep
func (c *BackupCatalog) Name() string {
	return "backup"
}

// AfterSave implements ports.SaveStep by snapshotting the freshly written file
func (c *BackupCatalog) AfterSave(ctx context.Context, _ string) error {
	_, err := c.Create(ctx)
	return err
}

// Create copies the data file into a new snapshot, refreshes
// latest-backup.json and prunes the catalog.
func (c *BackupCatalog) Create(ctx context.Context) (*entities.BackupInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entities.ErrNoDataFile
		}
		return nil, fmt.Errorf("%w: read data file: %v", entities.ErrIO, err)
	}

	idx := c.loadIndex()
	created := c.now().UTC().Truncate(time.Millisecond)
	name := backupName(created)
	for c.taken(idx, name) {
		created = created.Add(time.Millisecond)
		name = backupName(created)
	}

	if err := writeFileAtomic(filepath.Join(c.dir, name), data, 0o644); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(filepath.Join(c.dir, latestBackupName), data, 0o644); err != nil {
		return nil, err
	}

	idx.Backups[name] = created
	if err := c.saveIndex(idx); err != nil {
		c.logger.Warnw("Failed to update backup index", "error", err)
	}

	if _, err := c.pruneLocked(idx); err != nil {
		c.logger.Warnw("Failed to prune backups", "error", err)
	}

	c.logger.Infow("Backup created", "filename", name, "size", len(data))
	return &entities.BackupInfo{Filename: name, Size: int64(len(data)), Created: created}, nil
}

// List returns the snapshots in the catalog, newest first
func (c *BackupCatalog) List(_ context.Context) ([]entities.BackupInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked(c.loadIndex())
}

// Prune deletes every snapshot beyond the newest keep
func (c *BackupCatalog) Prune(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneLocked(c.loadIndex())
}

// Resolve maps a snapshot name to its path. Only names present in the
// catalog listing resolve; anything else is rejected before touching disk.
func (c *BackupCatalog) Resolve(_ context.Context, name string) (string, error) {
	if !isBackupName(name) {
		return "", entities.ErrInvalidBackupName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.listLocked(c.loadIndex())
	if err != nil {
		return "", err
	}
	for _, b := range list {
		if b.Filename == name {
			return filepath.Join(c.dir, name), nil
		}
	}
	return "", entities.ErrBackupNotFound
}

// Read returns the raw bytes of a snapshot
func (c *BackupCatalog) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := c.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entities.ErrBackupNotFound
		}
		return nil, fmt.Errorf("%w: read backup: %v", entities.ErrIO, err)
	}
	return data, nil
}

// WriteExport stores an export file next to the snapshots
func (c *BackupCatalog) WriteExport(_ context.Context, name string, data []byte) (string, error) {
	if !plainName(name) || isBackupName(name) || name == latestBackupName || name == backupIndexName {
		return "", fmt.Errorf("%w: invalid export filename", entities.ErrValidation)
	}
	path := filepath.Join(c.dir, name)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (c *BackupCatalog) listLocked(idx backupIndex) ([]entities.BackupInfo, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read backup directory: %v", entities.ErrIO, err)
	}

	list := make([]entities.BackupInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !isBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		created, ok := idx.Backups[e.Name()]
		if !ok {
			if ts, err := parseBackupName(e.Name()); err == nil {
				created = ts
			} else {
				created = info.ModTime().UTC()
			}
		}

		list = append(list, entities.BackupInfo{
			Filename: e.Name(),
			Size:     info.Size(),
			Created:  created,
		})
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].Created.Equal(list[j].Created) {
			return list[i].Created.After(list[j].Created)
		}
		return list[i].Filename > list[j].Filename
	})
	return list, nil
}

func (c *BackupCatalog) pruneLocked(idx backupIndex) ([]string, error) {
	list, err := c.listLocked(idx)
	if err != nil {
		return nil, err
	}
	if len(list) <= c.keep {
		c.metrics.SetBackups(len(list))
		return nil, nil
	}

	var (
		removed []string
		errs    []error
	)
	for _, b := range list[c.keep:] {
		if err := os.Remove(filepath.Join(c.dir, b.Filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		delete(idx.Backups, b.Filename)
		removed = append(removed, b.Filename)
	}

	if err := c.saveIndex(idx); err != nil {
		errs = append(errs, err)
	}
	c.metrics.SetBackups(len(list) - len(removed))

	if len(removed) > 0 {
		c.logger.Infow("Pruned old backups", "removed", len(removed), "kept", c.keep)
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("%w: prune backups: %v", entities.ErrIO, errors.Join(errs...))
	}
	return removed, nil
}

func (c *BackupCatalog) taken(idx backupIndex, name string) bool {
	if _, ok := idx.Backups[name]; ok {
		return true
	}
	_, err := os.Stat(filepath.Join(c.dir, name))
	return err == nil
}

// loadIndex never fails: a missing or corrupt index is treated as empty and
// the listing falls back to name-encoded timestamps.
func (c *BackupCatalog) loadIndex() backupIndex {
	idx := backupIndex{Backups: map[string]time.Time{}}

	data, err := os.ReadFile(filepath.Join(c.dir, backupIndexName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warnw("Failed to read backup index", "error", err)
		}
		return idx
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		c.logger.Warnw("Backup index is corrupt, ignoring it", "error", err)
		return backupIndex{Backups: map[string]time.Time{}}
	}
	if idx.Backups == nil {
		idx.Backups = map[string]time.Time{}
	}
	return idx
}

func (c *BackupCatalog) saveIndex(idx backupIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode backup index: %v", entities.ErrIO, err)
	}
	return writeFileAtomic(filepath.Join(c.dir, backupIndexName), data, 0o644)
}

func backupName(t time.Time) string {
	t = t.UTC()
	millis := t.Nanosecond() / int(time.Millisecond)
	return fmt.Sprintf("%s%s-%03dZ%s", backupPrefix, t.Format(backupTimeLayout), millis, backupSuffix)
}

func parseBackupName(name string) (time.Time, error) {
	ts := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	if len(ts) != backupStampLen || !strings.HasSuffix(ts, "Z") {
		return time.Time{}, fmt.Errorf("unexpected backup timestamp %q", ts)
	}

	base, err := time.Parse(backupTimeLayout, ts[:len(backupTimeLayout)])
	if err != nil {
		return time.Time{}, err
	}
	millis, err := strconv.Atoi(ts[len(backupTimeLayout)+1 : len(ts)-1])
	if err != nil {
		return time.Time{}, err
	}
	return base.Add(time.Duration(millis) * time.Millisecond).UTC(), nil
}

func isBackupName(name string) bool {
	return plainName(name) &&
		strings.HasPrefix(name, backupPrefix) &&
		strings.HasSuffix(name, backupSuffix) &&
		len(name) > len(backupPrefix)+len(backupSuffix)
}
