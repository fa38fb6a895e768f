package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path/filepath"

	"github.com/spf13/afero"
)

// DiskStorage stores objects as files on an afero filesystem.
type DiskStorage struct {
	fs afero.Fs
}

// NewDiskStorage stores objects at the root of fsys.
func NewDiskStorage(fsys afero.Fs) *DiskStorage {
	return &DiskStorage{fs: fsys}
}

// NewDiskStorageAt stores objects under dir on the OS filesystem, creating it if needed.
func NewDiskStorageAt(dir string) (*DiskStorage, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return NewDiskStorage(afero.NewBasePathFs(osFs, dir)), nil
}

// Save writes body to key, replacing any previous content.
func (s *DiskStorage) Save(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if err := afero.WriteReader(s.fs, key, body); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Open returns the file stored under key. The content type is derived from its extension.
func (s *DiskStorage) Open(_ context.Context, key string) (*Object, error) {
	info, err := s.fs.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	if info.IsDir() {
		return nil, ErrObjectNotFound
	}

	f, err := s.fs.Open(key)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return &Object{
		Body:        f,
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
		Size:        info.Size(),
	}, nil
}
