// Package asset provides read-only access to bundled game assets
// Assets are addressed by slash-separated relative paths and exposed as
// descriptors carrying an explicit offset and length, so entries packed
// inside an archive are read in place without extraction
package asset

import (
	"errors"
	"io"
)

// Source opens bundled assets by relative path
type Source interface {
	Open(name string) (*Descriptor, error)
}

// Sentinel errors
var (
	ErrNotFound = errors.New("asset not found")
	ErrClosed   = errors.New("asset source closed")
)

// Descriptor is an open window onto an asset's bytes
// The window starts at Offset within the backing reader and spans Length bytes
type Descriptor struct {
	Name   string
	Offset int64
	Length int64

	r      io.ReaderAt
	closer io.Closer
}

// NewDescriptor wraps a reader window; closer may be nil
func NewDescriptor(name string, r io.ReaderAt, offset, length int64, closer io.Closer) *Descriptor {
	return &Descriptor{
		Name:   name,
		Offset: offset,
		Length: length,
		r:      r,
		closer: closer,
	}
}

// Section returns an independent reader over the asset window
func (d *Descriptor) Section() *io.SectionReader {
	return io.NewSectionReader(d.r, d.Offset, d.Length)
}

// Stream returns a seekable reader whose Close releases the descriptor
func (d *Descriptor) Stream() io.ReadSeekCloser {
	return &stream{SectionReader: d.Section(), d: d}
}

// ReadAll returns a copy of the asset bytes
func (d *Descriptor) ReadAll() ([]byte, error) {
	return io.ReadAll(d.Section())
}

// Close releases the backing handle; safe to call more than once
func (d *Descriptor) Close() error {
	if d.closer == nil {
		return nil
	}
	c := d.closer
	d.closer = nil
	return c.Close()
}

type stream struct {
	*io.SectionReader
	d *Descriptor
}

func (s *stream) Close() error {
	return s.d.Close()
}
