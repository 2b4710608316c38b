package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/infrastructure/metrics"
	"github.com/ntandostore/core/internal/ports"
)

var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
	".mp3": true, ".wav": true, ".ogg": true,
}

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true, "image/webp": true,
	"audio/mpeg": true, "audio/mp3": true, "audio/wav": true, "audio/x-wav": true, "audio/wave": true, "audio/ogg": true,
}

// UploadService stores media files and points the settings at them
type UploadService struct {
	store     ports.DocumentRepository
	media     ports.MediaStore
	maxSize   int64
	urlPrefix string
	now       func() time.Time
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewUploadService creates a new upload service
func NewUploadService(store ports.DocumentRepository, media ports.MediaStore, maxSize int64, urlPrefix string, appLogger *logger.Logger, m *metrics.Metrics) *UploadService {
	return &UploadService{
		store:     store,
		media:     media,
		maxSize:   maxSize,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		now:       time.Now,
		logger:    appLogger.WithComponent("upload"),
		metrics:   m,
	}
}

// Upload validates and stores file, then records its URL in the settings
// field that belongs to target.
func (s *UploadService) Upload(ctx context.Context, target ports.UploadTarget, file ports.UploadFile) (*ports.UploadResult, error) {
	result, err := s.upload(ctx, target, file)
	s.metrics.ObserveUpload(string(target), err)
	if err != nil {
		s.logger.Warnw("Upload rejected", "target", target, "filename", file.Filename, "error", err)
		return nil, err
	}
	return result, nil
}

func (s *UploadService) upload(ctx context.Context, target ports.UploadTarget, file ports.UploadFile) (*ports.UploadResult, error) {
	if file.Open == nil || file.Filename == "" {
		return nil, entities.ErrNoFile
	}
	if file.Size > s.maxSize {
		return nil, entities.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] || !allowedMediaType(file.ContentType) {
		return nil, entities.ErrInvalidFileType
	}

	setURL, err := settingsField(target)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %v", entities.ErrIO, err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%d-%d%s", target, s.now().UnixMilli(), uuid.New().ID(), ext)
	if _, err := s.media.Store(ctx, name, &sizeLimitReader{r: src, remaining: s.maxSize}); err != nil {
		return nil, err
	}

	url := path.Join(s.urlPrefix, name)
	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		setURL(&doc.Settings, url)
		return nil
	})
	if err != nil {
		if rmErr := s.media.Remove(ctx, name); rmErr != nil {
			s.logger.Errorw("Failed to remove orphaned upload", "filename", name, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save upload settings: %w", err)
	}

	s.logger.Infow("File uploaded", "target", target, "filename", name, "size", file.Size)
	return &ports.UploadResult{Filename: name, URL: url, Report: report}, nil
}

func settingsField(target ports.UploadTarget) (func(*entities.Settings, string), error) {
	switch target {
	case ports.UploadTargetLogo:
		return func(st *entities.Settings, url string) { st.Logo = url }, nil
	case ports.UploadTargetBackground:
		return func(st *entities.Settings, url string) { st.BackgroundImage = url }, nil
	case ports.UploadTargetMusic:
		return func(st *entities.Settings, url string) { st.BackgroundMusic = url }, nil
	default:
		return nil, fmt.Errorf("%w: unknown upload target %q", entities.ErrValidation, target)
	}
}

func allowedMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return allowedMediaTypes[strings.ToLower(mediaType)]
}

// sizeLimitReader fails once more than remaining bytes have been read, so a
// client that under-declares its size still cannot exceed the limit.
type sizeLimitReader struct {
	r         io.Reader
	remaining int64
}

func (l *sizeLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, entities.ErrFileTooLarge
	}
	return n, err
}
