package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ntandostore/core/internal/domain/entities"
)

// writeFileAtomic writes data next to path and renames it into place, so a
// crash mid-write never leaves a truncated file behind.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	return writeStreamAtomic(path, bytes.NewReader(data), perm)
}

func writeStreamAtomic(path string, src io.Reader, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", entities.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, src); err != nil {
		tmp.Close()
		if errors.Is(err, entities.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: write %s: %v", entities.ErrIO, filepath.Base(path), err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", entities.ErrIO, filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", entities.ErrIO, filepath.Base(path), err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", entities.ErrIO, filepath.Base(path), err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", entities.ErrIO, filepath.Base(path), err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", entities.ErrIO, filepath.Base(src), err)
	}
	defer in.Close()

	return writeStreamAtomic(dst, in, 0o644)
}

// plainName reports whether name is a bare file name with no path parts
func plainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}

// dirSize returns the total size of regular files under dir. A missing
// directory has size zero.
func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: walk %s: %v", entities.ErrIO, dir, err)
	}
	return total, nil
}
