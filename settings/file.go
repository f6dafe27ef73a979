package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// keyDelimiter replaces viper's "." nesting so reverse-domain keys stay flat
const keyDelimiter = "::"

// FileStore keeps preferences in a YAML file, rewritten on every SetBool
type FileStore struct {
	mu     sync.Mutex
	v      *viper.Viper
	path   string
	closed bool
}

// OpenFile loads path if it exists; a missing file is an empty store
func OpenFile(path string) (*FileStore, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat settings %s: %w", path, err)
	}

	log.Debug("settings file opened", "path", path, "keys", len(v.AllKeys()))
	return &FileStore{v: v, path: path}, nil
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Bool implements Store
func (s *FileStore) Bool(key string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.v.IsSet(key) {
		return def
	}
	return s.v.GetBool(key)
}

// SetBool implements Store
func (s *FileStore) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.v.Set(key, value)
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	return nil
}

// Close marks the store unusable; the file is left in place
func (s *FileStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
