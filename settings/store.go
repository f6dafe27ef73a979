// Package settings persists user preferences that must survive restarts
package settings

import (
	"errors"
	"path/filepath"
	"strings"
)

// Store is a process-wide key/value preference store
// Reads never fail: a missing or unreadable key yields the caller's default
// Writes are synchronous; SetBool returns once the value is committed or failed
type Store interface {
	Bool(key string, def bool) bool
	SetBool(key string, value bool) error
}

// Sentinel errors
var (
	ErrClosed = errors.New("settings store closed")
)

// CloseableStore is a Store that holds an open file or database
type CloseableStore interface {
	Store
	Close() error
}

// Open picks a backend by file extension: .db, .sqlite and .sqlite3 open a
// SQLite store, anything else a YAML file store
func Open(path string) (CloseableStore, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return OpenFile(path)
	}
}
