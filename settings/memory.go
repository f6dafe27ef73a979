package settings

import "sync"

// Memory is a volatile Store, used by tests and as a fallback when no
// persistent store can be opened
type Memory struct {
	mu     sync.RWMutex
	values map[string]bool
	writes int
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]bool)}
}

// Bool implements Store
func (m *Memory) Bool(key string, def bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

// SetBool implements Store
func (m *Memory) SetBool(key string, value bool) error {
	m.mu.Lock()
	m.values[key] = value
	m.writes++
	m.mu.Unlock()
	return nil
}

// Has reports whether key was ever written
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}

// Writes returns the number of committed SetBool calls
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
