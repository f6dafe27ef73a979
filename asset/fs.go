package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// FS serves assets from an fs.FS tree (a directory, an embed.FS, ...)
type FS struct {
	fsys fs.FS
}

// NewFS wraps fsys
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// NewDir serves assets from a directory on disk
func NewDir(dir string) *FS {
	return NewFS(os.DirFS(dir))
}

// Open implements Source
// Files that support ReaderAt are read in place; others are buffered
func (s *FS) Open(name string) (*Descriptor, error) {
	name = path.Clean(name)
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("open asset %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat asset %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, name)
	}

	if ra, ok := f.(io.ReaderAt); ok {
		return NewDescriptor(name, ra, 0, info.Size(), f), nil
	}

	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return NewDescriptor(name, bytes.NewReader(data), 0, int64(len(data)), nil), nil
}
