package settings

import "github.com/charmbracelet/log"

// Service opens a persistent Store for the lifetime of the application
// Falls back to a volatile store when the file cannot be opened
type Service struct {
	path   string
	store  Store
	closer interface{ Close() error }
}

// NewService creates a settings service backed by path
func NewService(path string) *Service {
	return &Service{path: path}
}

// Name implements service.Service
func (s *Service) Name() string { return "settings" }

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

	if s.path == "" {
		s.store = NewMemory()
		return nil
	}
	st, err := Open(s.path)
	if err != nil {
		log.Warn("settings unavailable, preferences will not persist", "path", s.path, "err", err)
		s.store = NewMemory()
		return nil
	}
	s.store = st
	s.closer = st
	return nil
}

// Start implements service.Service
func (s *Service) Start() error { return nil }

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// Store returns the opened store (nil before Init)
func (s *Service) Store() Store { return s.store }
