package entities

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can branch
// with errors.Is on the kind alone.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrIO           = errors.New("storage failure")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrServiceNotFound = fmt.Errorf("service %w", ErrNotFound)
	ErrDomainNotFound  = fmt.Errorf("domain %w", ErrNotFound)
	ErrBackupNotFound  = fmt.Errorf("backup %w", ErrNotFound)
	ErrNoDataFile      = fmt.Errorf("data file %w, nothing to back up", ErrNotFound)

	ErrInvalidFileType   = fmt.Errorf("%w: invalid file type, only JPEG, JPG, PNG, GIF, WEBP, MP3, WAV, OGG files are allowed", ErrValidation)
	ErrFileTooLarge      = fmt.Errorf("%w: file exceeds the upload size limit", ErrValidation)
	ErrNoFile            = fmt.Errorf("%w: no file uploaded", ErrValidation)
	ErrInvalidFormat     = fmt.Errorf("%w: invalid data format", ErrValidation)
	ErrInvalidBackupName = fmt.Errorf("%w: invalid backup filename", ErrValidation)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)
