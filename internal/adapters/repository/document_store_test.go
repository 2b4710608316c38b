package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
)

type failingStep struct{ err error }

func (f failingStep) Name() string { return "failing" }
func (f failingStep) AfterSave(context.Context, string) error { return f.err }

type countingStep struct {
	mu    sync.Mutex
	calls int
}

func (c *countingStep) Name() string { return "counting" }
func (c *countingStep) AfterSave(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

func TestDocumentStoreMissingFileUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "admin-data.json")

	store, err := NewDocumentStore(path, logger.NewNop(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	doc := store.Snapshot(context.Background())
	if len(doc.Services) != 7 || len(doc.Domains) != 2 {
		t.Fatalf("expected default document, got %d services %d domains", len(doc.Services), len(doc.Domains))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected load not to create the data file, stat err %v", err)
	}
}

func TestDocumentStoreCorruptFileUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store, err := NewDocumentStore(path, logger.NewNop(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if got := store.Snapshot(context.Background()).Settings.PrimaryColor; got != "#6366f1" {
		t.Fatalf("expected default settings, got primary color %q", got)
	}
}

func TestDocumentStoreLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-data.json")
	if err := os.WriteFile(path, []byte(`{"services":[{"id":4,"name":"Only"}],"settings":{"siteTitle":"Mine"}}`), 0o644); err != nil {
		t.Fatalf("write data file: %v", err)
	}

	store, err := NewDocumentStore(path, logger.NewNop(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	doc := store.Snapshot(context.Background())
	if len(doc.Services) != 1 || doc.Services[0].ID != 4 {
		t.Fatalf("unexpected services: %+v", doc.Services)
	}
	if doc.Domains == nil || doc.Contacts == nil {
		t.Fatal("expected missing collections to be normalised")
	}
	if doc.Settings.SiteTitle != "Mine" {
		t.Fatalf("expected site title Mine, got %q", doc.Settings.SiteTitle)
	}
}

func TestDocumentStoreUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-data.json")
	step := &countingStep{}

	store, err := NewDocumentStore(path, logger.NewNop(), nil, step)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	report, err := store.Update(context.Background(), func(doc *entities.Document) error {
		doc.Settings.SiteTitle = "Updated"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected clean report, got %v", report.Warnings())
	}
	if step.calls != 1 {
		t.Fatalf("expected post-save step to run once, ran %d", step.calls)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	var onDisk entities.Document
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("decode data file: %v", err)
	}
	if onDisk.Settings.SiteTitle != "Updated" {
		t.Fatalf("expected persisted title Updated, got %q", onDisk.Settings.SiteTitle)
	}
}

func TestDocumentStoreUpdateErrorLeavesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-data.json")
	step := &countingStep{}

	store, err := NewDocumentStore(path, logger.NewNop(), nil, step)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	boom := errors.New("boom")
	_, err = store.Update(context.Background(), func(doc *entities.Document) error {
		doc.Settings.SiteTitle = "Changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if store.Snapshot(context.Background()).Settings.SiteTitle == "Changed" {
		t.Fatal("expected document to be unchanged")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected nothing to be written")
	}
	if step.calls != 0 {
		t.Fatalf("expected no post-save steps, got %d", step.calls)
	}
}

func TestDocumentStoreReportsFailedStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-data.json")

	store, err := NewDocumentStore(path, logger.NewNop(), nil, failingStep{err: errors.New("disk full")})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	report, err := store.Update(context.Background(), func(doc *entities.Document) error {
		doc.Settings.HeroTitle = "Hello"
		return nil
	})
	if err != nil {
		t.Fatalf("expected write to succeed, got %v", err)
	}
	warnings := report.Warnings()
	if len(warnings) != 1 || warnings[0] != "failing failed: disk full" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if store.Snapshot(context.Background()).Settings.HeroTitle != "Hello" {
		t.Fatal("expected the write to stand despite the failed step")
	}
}

func TestDocumentStoreWriteFailureShortCircuits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin-data.json")
	step := &countingStep{}

	store, err := NewDocumentStore(path, logger.NewNop(), nil, step)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	// A directory at the data path makes the rename fail.
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err = store.Update(context.Background(), func(doc *entities.Document) error {
		doc.Settings.SiteTitle = "Lost"
		return nil
	})
	if !errors.Is(err, entities.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if step.calls != 0 {
		t.Fatalf("expected post-save steps to be skipped, ran %d", step.calls)
	}
	if store.Snapshot(context.Background()).Settings.SiteTitle == "Lost" {
		t.Fatal("expected in-memory document to stay in sync with disk")
	}
}

func TestDocumentStoreConcurrentUpdatesAssignDistinctIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin-data.json")

	store, err := NewDocumentStore(path, logger.NewNop(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(context.Background(), func(doc *entities.Document) error {
				doc.Services = append(doc.Services, entities.Service{ID: doc.NextServiceID(), Name: "svc"})
				return nil
			})
			if err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, s := range store.Snapshot(context.Background()).Services {
		if seen[s.ID] {
			t.Fatalf("duplicate service id %d", s.ID)
		}
		seen[s.ID] = true
	}
	if len(seen) != 7+workers {
		t.Fatalf("expected %d services, got %d", 7+workers, len(seen))
	}
}
