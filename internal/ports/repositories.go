package ports

import (
	"context"
	"io"

	"github.com/ntandostore/core/internal/domain/entities"
)

// DocumentRepository owns the in-memory document and its data file
type DocumentRepository interface {
	// Snapshot returns a deep copy of the current document.
	Snapshot(ctx context.Context) *entities.Document
	// Update applies fn to a copy of the document and persists it. When fn
	// returns an error nothing is written and the document is unchanged.
	Update(ctx context.Context, fn func(doc *entities.Document) error) (*SaveReport, error)
	// Replace swaps in a whole document and persists it.
	Replace(ctx context.Context, doc *entities.Document) (*SaveReport, error)
	// Path is the canonical data file.
	Path() string
	// Size is the total size of the directory holding the data file.
	Size(ctx context.Context) (int64, error)
}

// SaveStep runs after every successful write of the data file
type SaveStep interface {
	Name() string
	AfterSave(ctx context.Context, dataFile string) error
}

// BackupCatalog manages timestamped snapshots of the data file
type BackupCatalog interface {
	Create(ctx context.Context) (*entities.BackupInfo, error)
	List(ctx context.Context) ([]entities.BackupInfo, error)
	Prune(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Resolve(ctx context.Context, name string) (string, error)
	WriteExport(ctx context.Context, name string, data []byte) (string, error)
	Dir() string
}

// MediaStore keeps uploaded files in the primary and permanent directories
type MediaStore interface {
	Store(ctx context.Context, name string, src io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
	Mirror(ctx context.Context) error
	Metadata(ctx context.Context) (map[string]entities.UploadMeta, error)
	PrimaryDir() string
	PermanentDir() string
	// Size is the total size of the publicly served uploads.
	Size(ctx context.Context) (int64, error)
}
