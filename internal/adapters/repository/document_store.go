package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/infrastructure/metrics"
	"github.com/ntandostore/core/internal/ports"
)

const stepWrite = "write"

// DocumentStore keeps the storefront document in memory and mirrors it to a
// single JSON file. All mutations are serialised by mu, so every
// read-compute-persist sequence is atomic with respect to other requests.
type DocumentStore struct {
	mu      sync.Mutex
	path    string
	doc     *entities.Document
	steps   []ports.SaveStep
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewDocumentStore loads the data file at path. A missing or unreadable file
// falls back to the default document; only a failure to create the data
// directory is returned as an error.
func NewDocumentStore(path string, appLogger *logger.Logger, m *metrics.Metrics, steps ...ports.SaveStep) (*DocumentStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", entities.ErrIO, err)
	}

	s := &DocumentStore{
		path:    path,
		steps:   steps,
		logger:  appLogger.WithComponent("document_store"),
		metrics: m,
	}
	s.doc = s.load()
	return s, nil
}

func (s *DocumentStore) load() *entities.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Infow("No data file found, using default document", "path", s.path)
		} else {
			s.logger.Warnw("Failed to read data file, using default document", "path", s.path, "error", err)
		}
		return entities.DefaultDocument()
	}

	var doc entities.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warnw("Data file is not valid JSON, using default document", "path", s.path, "error", err)
		return entities.DefaultDocument()
	}
	doc.Normalize()
	return &doc
}

// Path returns the canonical data file
func (s *DocumentStore) Path() string {
	return s.path
}

// Size returns the size of the data directory, backups included
func (s *DocumentStore) Size(_ context.Context) (int64, error) {
	return dirSize(filepath.Dir(s.path))
}

// Snapshot returns a deep copy of the current document
func (s *DocumentStore) Snapshot(_ context.Context) *entities.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Update applies fn to a copy of the document and commits it
func (s *DocumentStore) Update(ctx context.Context, fn func(doc *entities.Document) error) (*ports.SaveReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Normalize()
	return s.commit(ctx, next)
}

// Replace commits doc as the whole new document
func (s *DocumentStore) Replace(ctx context.Context, doc *entities.Document) (*ports.SaveReport, error) {
	if doc == nil {
		return nil, entities.ErrInvalidFormat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := doc.Clone()
	next.Normalize()
	return s.commit(ctx, next)
}

// commit writes next to disk and only then makes it current. The post-save
// steps run after a successful write; their failures are reported, not
// returned.
func (s *DocumentStore) commit(ctx context.Context, next *entities.Document) (*ports.SaveReport, error) {
	start := time.Now()
	err := s.write(next)
	s.logger.LogStorageStep(stepWrite, sinceMillis(start), err)
	s.metrics.ObserveStep(stepWrite, err)
	if err != nil {
		return nil, err
	}
	s.doc = next

	report := &ports.SaveReport{Steps: []ports.StepResult{{Step: stepWrite}}}
	for _, step := range s.steps {
		start := time.Now()
		err := step.AfterSave(ctx, s.path)
		s.logger.LogStorageStep(step.Name(), sinceMillis(start), err)
		s.metrics.ObserveStep(step.Name(), err)

		result := ports.StepResult{Step: step.Name()}
		if err != nil {
			result.Error = err.Error()
		}
		report.Steps = append(report.Steps, result)
	}

	return report, nil
}

func (s *DocumentStore) write(doc *entities.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", entities.ErrIO, err)
	}
	return writeFileAtomic(s.path, data, 0o644)
}

func sinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1000000
}
