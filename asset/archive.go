package asset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/klauspost/compress/zip"
)

// Archive serves assets packed inside a zip file
// Stored entries are exposed in place (offset/length into the archive);
// compressed entries are inflated into memory on open
type Archive struct {
	mu      sync.RWMutex
	file    *os.File
	entries map[string]*zip.File
}

// OpenArchive indexes the zip at p
func OpenArchive(p string) (*Archive, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read archive %s: %w", p, err)
	}

	a := &Archive{
		file:    f,
		entries: make(map[string]*zip.File, len(zr.File)),
	}
	for _, e := range zr.File {
		if e.FileInfo().IsDir() {
			continue
		}
		a.entries[path.Clean(e.Name)] = e
	}
	return a, nil
}

// Names returns the indexed entry names (unordered)
func (a *Archive) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.entries))
	for n := range a.entries {
		names = append(names, n)
	}
	return names
}

// Open implements Source
func (a *Archive) Open(name string) (*Descriptor, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.file == nil {
		return nil, ErrClosed
	}
	name = path.Clean(name)
	e, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if e.Method == zip.Store {
		off, err := e.DataOffset()
		if err != nil {
			return nil, fmt.Errorf("locate asset %s: %w", name, err)
		}
		// Archive owns the file handle, descriptor close is a no-op
		return NewDescriptor(name, a.file, off, int64(e.UncompressedSize64), nil), nil
	}

	rc, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("inflate asset %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("inflate asset %s: %w", name, err)
	}
	return NewDescriptor(name, bytes.NewReader(data), 0, int64(len(data)), nil), nil
}

// Close releases the archive file; descriptors opened in place become invalid
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}
