package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Sentinel errors
var (
	ErrDuplicate         = errors.New("service already registered")
	ErrMissingDependency = errors.New("dependency not registered")
	ErrCycle             = errors.New("dependency cycle")
)

type entry struct {
	svc  Service
	args []any
}

// Hub owns a set of services and drives their lifecycle
// Services run in dependency order; ties keep registration order
type Hub struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
	order   []string // nil until resolved
	inited  []string // Init succeeded, Stop owed
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{index: make(map[string]int)}
}

// Register adds svc; args are handed to its Init
func (h *Hub) Register(svc Service, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, ok := h.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.index[name] = len(h.entries)
	h.entries = append(h.entries, entry{svc: svc, args: args})
	h.order = nil
	return nil
}

// Get looks a service up by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := h.index[name]
	if !ok {
		return nil, false
	}
	return h.entries[i].svc, true
}

// MustGet returns the named service as T, panicking when absent or mistyped
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("service not found: %s", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("service %s: type mismatch, got %T", name, svc))
	}
	return typed
}

// Names returns service names in registration order
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.svc.Name()
	}
	return names
}

// InitAll initializes every service after its dependencies
// A failure stops the services already initialized, newest first
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	h.inited = h.inited[:0]
	for _, name := range h.order {
		e := h.entries[h.index[name]]
		if err := e.svc.Init(e.args...); err != nil {
			h.stopInited()
			return fmt.Errorf("init %s: %w", name, err)
		}
		h.inited = append(h.inited, name)
	}
	return nil
}

// StartAll starts every service in dependency order
// A failure stops every initialized service
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range h.order {
		if err := h.entries[h.index[name]].svc.Start(); err != nil {
			h.stopInited()
			return fmt.Errorf("start %s: %w", name, err)
		}
	}
	return nil
}

// StopAll stops every initialized service in reverse order
// Stop errors are logged so every service gets its turn
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopInited()
}

func (h *Hub) stopInited() {
	for i := len(h.inited) - 1; i >= 0; i-- {
		name := h.inited[i]
		if err := h.entries[h.index[name]].svc.Stop(); err != nil {
			log.Warn("service stop failed", "service", name, "err", err)
		}
	}
	h.inited = h.inited[:0]
}

// resolve orders services depth-first so each follows its dependencies
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(h.entries))
	order := make([]string, 0, len(h.entries))
	var path []string

	var visit func(i int) error
	visit = func(i int) error {
		name := h.entries[i].svc.Name()
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(path, " -> "), name)
		}
		state[i] = visiting
		path = append(path, name)
		for _, dep := range h.entries[i].svc.Dependencies() {
			j, ok := h.index[dep]
			if !ok {
				return fmt.Errorf("%w: %s needs %s", ErrMissingDependency, name, dep)
			}
			if err := visit(j); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[i] = done
		order = append(order, name)
		return nil
	}

	for i := range h.entries {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}
