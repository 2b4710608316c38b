package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
)

func newTestCatalog(t *testing.T, keep int) (*BackupCatalog, string) {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "admin-data.json")
	if err := os.WriteFile(source, []byte(`{"services":[]}`), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	catalog, err := NewBackupCatalog(filepath.Join(dir, "backups"), source, keep, logger.NewNop(), nil)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	base := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	tick := 0
	catalog.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return catalog, source
}

func TestBackupNameRoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 15, 12, 30, 45, 123000000, time.UTC)

	name := backupName(ts)
	if name != "admin-data-backup-2026-10-15T12-30-45-123Z.json" {
		t.Fatalf("unexpected name %q", name)
	}
	parsed, err := parseBackupName(name)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Fatalf("expected %s, got %s", ts, parsed)
	}
}

func TestBackupCreateWritesSnapshotAndLatest(t *testing.T) {
	catalog, _ := newTestCatalog(t, 10)

	info, err := catalog.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(info.Filename, backupPrefix) {
		t.Fatalf("unexpected filename %q", info.Filename)
	}

	latest, err := os.ReadFile(filepath.Join(catalog.Dir(), latestBackupName))
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if string(latest) != `{"services":[]}` {
		t.Fatalf("unexpected latest contents %q", latest)
	}
}

func TestBackupPruneKeepsNewestTen(t *testing.T) {
	catalog, _ := newTestCatalog(t, 10)

	var created []string
	for i := 0; i < 15; i++ {
		info, err := catalog.Create(context.Background())
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		created = append(created, info.Filename)
	}

	list, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 10 {
		t.Fatalf("expected 10 backups, got %d", len(list))
	}
	for i, b := range list {
		want := created[len(created)-1-i]
		if b.Filename != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, b.Filename)
		}
	}

	if _, err := os.Stat(filepath.Join(catalog.Dir(), latestBackupName)); err != nil {
		t.Fatalf("expected latest backup to remain: %v", err)
	}
	entries, err := os.ReadDir(catalog.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	backups := 0
	for _, e := range entries {
		if isBackupName(e.Name()) {
			backups++
		}
	}
	if backups != 10 {
		t.Fatalf("expected 10 backup files on disk, got %d", backups)
	}
}

func TestBackupOrderingUsesIndexNotName(t *testing.T) {
	catalog, _ := newTestCatalog(t, 10)

	// Clock goes backwards: names sort the opposite way to creation order.
	stamps := []time.Time{
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	catalog.SetClock(func() time.Time {
		ts := stamps[i]
		i++
		return ts
	})

	first, err := catalog.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := catalog.Create(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Filename != first.Filename {
		t.Fatalf("expected %s first, got %s", first.Filename, list[0].Filename)
	}
}

func TestBackupSameMillisecondGetsDistinctNames(t *testing.T) {
	catalog, _ := newTestCatalog(t, 10)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog.SetClock(func() time.Time { return fixed })

	a, err := catalog.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := catalog.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Filename == b.Filename {
		t.Fatalf("expected distinct names, both %s", a.Filename)
	}
}

func TestBackupResolveRejectsUnsafeNames(t *testing.T) {
	catalog, _ := newTestCatalog(t, 10)

	tests := []struct {
		name string
		want error
	}{
		{name: "../admin-data.json", want: entities.ErrInvalidBackupName},
		{name: "admin-data-backup-../../x.json", want: entities.ErrInvalidBackupName},
		{name: "latest-backup.json", want: entities.ErrInvalidBackupName},
		{name: "backup-index.json", want: entities.ErrInvalidBackupName},
		{name: "admin-data-backup-2000-01-01T00-00-00-000Z.json", want: entities.ErrBackupNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Resolve(context.Background(), tt.name)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBackupReadReturnsSnapshotBytes(t *testing.T) {
	catalog, source := newTestCatalog(t, 10)

	info, err := catalog.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := os.WriteFile(source, []byte(`{"changed":true}`), 0o644); err != nil {
		t.Fatalf("rewrite source: %v", err)
	}

	data, err := catalog.Read(context.Background(), info.Filename)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"services":[]}` {
		t.Fatalf("expected original snapshot, got %q", data)
	}
}

func TestWriteExportRejectsBackupNames(t *testing.T) {
	catalog, _ := newTestCatalog(t, 10)

	if _, err := catalog.WriteExport(context.Background(), "latest-backup.json", []byte("{}")); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	path, err := catalog.WriteExport(context.Background(), "store-export-1.json", []byte("{}"))
	if err != nil {
		t.Fatalf("write export: %v", err)
	}
	if filepath.Dir(path) != catalog.Dir() {
		t.Fatalf("expected export in backup dir, got %s", path)
	}

	list, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected exports to stay out of the backup listing, got %d", len(list))
	}
}
