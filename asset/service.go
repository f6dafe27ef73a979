package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Service opens the asset bundle for the lifetime of the application
// A path ending in .zip is served as an archive, anything else as a directory
type Service struct {
	path    string
	source  Source
	archive *Archive
}

// NewService creates an asset service rooted at path
func NewService(path string) *Service {
	return &Service{path: path}
}

// Name implements service.Service
func (s *Service) Name() string { return "assets" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: string - optional path override
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if p, ok := args[0].(string); ok && p != "" {
			s.path = p
		}
	}

	if strings.EqualFold(filepath.Ext(s.path), ".zip") {
		a, err := OpenArchive(s.path)
		if err != nil {
			return err
		}
		s.archive = a
		s.source = a
		return nil
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("asset dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset dir: %s is not a directory", s.path)
	}
	s.source = NewDir(s.path)
	return nil
}

// Start implements service.Service
func (s *Service) Start() error { return nil }

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.archive == nil {
		return nil
	}
	err := s.archive.Close()
	s.archive = nil
	return err
}

// Source returns the opened source (nil before Init)
func (s *Service) Source() Source { return s.source }
