package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
)

// MediaStore writes uploads to a primary directory that is served publicly
// and keeps a second copy in a permanent directory.
type MediaStore struct {
	primary   string
	permanent string
	logger    *logger.Logger
}

// NewMediaStore creates both upload directories if needed
func NewMediaStore(primary, permanent string, appLogger *logger.Logger) (*MediaStore, error) {
	for _, dir := range []string{primary, permanent} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create upload directory: %v", entities.ErrIO, err)
		}
	}

	return &MediaStore{
		primary:   primary,
		permanent: permanent,
		logger:    appLogger.WithComponent("media_store"),
	}, nil
}

func (m *MediaStore) PrimaryDir() string   { return m.primary }
func (m *MediaStore) PermanentDir() string { return m.permanent }

// Size returns the size of the primary upload directory
func (m *MediaStore) Size(_ context.Context) (int64, error) {
	return dirSize(m.primary)
}

// Name implements ports.SaveStep
func (m *MediaStore) Name() string {
	return "mirror"
}

// AfterSave implements ports.SaveStep
func (m *MediaStore) AfterSave(ctx context.Context, _ string) error {
	return m.Mirror(ctx)
}

// Store writes src as name into both directories and returns the primary
// path. On failure neither directory keeps a copy.
func (m *MediaStore) Store(_ context.Context, name string, src io.Reader) (string, error) {
	if !plainName(name) {
		return "", fmt.Errorf("%w: invalid media filename", entities.ErrValidation)
	}

	primaryPath := filepath.Join(m.primary, name)
	if err := writeStreamAtomic(primaryPath, src, 0o644); err != nil {
		return "", err
	}
	if err := copyFile(primaryPath, filepath.Join(m.permanent, name)); err != nil {
		os.Remove(primaryPath)
		return "", err
	}

	return primaryPath, nil
}

// Remove deletes name from both directories
func (m *MediaStore) Remove(_ context.Context, name string) error {
	if !plainName(name) {
		return fmt.Errorf("%w: invalid media filename", entities.ErrValidation)
	}

	var errs []error
	for _, dir := range []string{m.primary, m.permanent} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: remove media: %v", entities.ErrIO, errors.Join(errs...))
	}
	return nil
}

// Mirror copies every primary file that is missing from the permanent
// directory, or whose size differs there.
func (m *MediaStore) Mirror(_ context.Context) error {
	entries, err := os.ReadDir(m.primary)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read upload directory: %v", entities.ErrIO, err)
	}

	var (
		copied int
		errs   []error
	)
	for _, e := range entries {
		if !mediaEntry(e) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		dst := filepath.Join(m.permanent, e.Name())
		if existing, err := os.Stat(dst); err == nil && existing.Size() == info.Size() {
			continue
		}
		if err := copyFile(filepath.Join(m.primary, e.Name()), dst); err != nil {
			errs = append(errs, err)
			continue
		}
		copied++
	}

	if copied > 0 {
		m.logger.Infow("Mirrored uploads to permanent storage", "files", copied)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: mirror uploads: %v", entities.ErrIO, errors.Join(errs...))
	}
	return nil
}

// Metadata describes every file in the permanent directory. The content type
// is detected from the file itself rather than trusted from its extension.
func (m *MediaStore) Metadata(_ context.Context) (map[string]entities.UploadMeta, error) {
	out := map[string]entities.UploadMeta{}

	entries, err := os.ReadDir(m.permanent)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("%w: read permanent upload directory: %v", entities.ErrIO, err)
	}

	for _, e := range entries {
		if !mediaEntry(e) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			m.logger.Warnw("Skipping unreadable upload", "filename", e.Name(), "error", err)
			continue
		}

		contentType := "application/octet-stream"
		if mt, err := mimetype.DetectFile(filepath.Join(m.permanent, e.Name())); err == nil {
			contentType = mt.String()
		}

		// Portable birth time is not available; modification time stands in.
		out[e.Name()] = entities.UploadMeta{
			Size:     info.Size(),
			Created:  info.ModTime().UTC(),
			Modified: info.ModTime().UTC(),
			Type:     contentType,
		}
	}

	return out, nil
}

// mediaEntry skips directories and in-flight temp files
func mediaEntry(e fs.DirEntry) bool {
	return e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".")
}
