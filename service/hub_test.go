package service

import (
	"errors"
	"testing"
)

type recordingService struct {
	name    string
	deps    []string
	log     *[]string
	initErr error
	gotArgs []any
}

func (s *recordingService) Name() string           { return s.name }
func (s *recordingService) Dependencies() []string { return s.deps }
func (s *recordingService) Init(args ...any) error {
	s.gotArgs = args
	*s.log = append(*s.log, "init:"+s.name)
	return s.initErr
}
func (s *recordingService) Start() error {
	*s.log = append(*s.log, "start:"+s.name)
	return nil
}
func (s *recordingService) Stop() error {
	*s.log = append(*s.log, "stop:"+s.name)
	return nil
}

func TestHubDependencyOrder(t *testing.T) {
	var calls []string
	h := NewHub()
	h.Register(&recordingService{name: "audio", deps: []string{"settings", "assets"}, log: &calls})
	h.Register(&recordingService{name: "settings", log: &calls}, "prefs.yaml")
	h.Register(&recordingService{name: "assets", deps: []string{"settings"}, log: &calls})

	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	h.StopAll()

	want := []string{
		"init:settings", "init:assets", "init:audio",
		"start:settings", "start:assets", "start:audio",
		"stop:audio", "stop:assets", "stop:settings",
	}
	if len(calls) != len(want) {
		t.Fatalf("Expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], calls[i])
		}
	}

	settings := MustGet[*recordingService](h, "settings")
	if len(settings.gotArgs) != 1 || settings.gotArgs[0] != "prefs.yaml" {
		t.Errorf("Expected registered args to reach Init, got %v", settings.gotArgs)
	}
}

func TestHubInitRollback(t *testing.T) {
	var calls []string
	h := NewHub()
	h.Register(&recordingService{name: "settings", log: &calls})
	h.Register(&recordingService{name: "audio", deps: []string{"settings"}, log: &calls, initErr: errors.New("boom")})

	if err := h.InitAll(); err == nil {
		t.Fatal("Expected InitAll to fail")
	}
	if calls[len(calls)-1] != "stop:settings" {
		t.Errorf("Expected settings to be stopped on rollback, got %v", calls)
	}
}

func TestHubRejectsDuplicatesAndCycles(t *testing.T) {
	var calls []string
	h := NewHub()
	if err := h.Register(&recordingService{name: "a", log: &calls}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := h.Register(&recordingService{name: "a", log: &calls}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	cyclic := NewHub()
	cyclic.Register(&recordingService{name: "a", deps: []string{"b"}, log: &calls})
	cyclic.Register(&recordingService{name: "b", deps: []string{"a"}, log: &calls})
	if err := cyclic.InitAll(); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}

	missing := NewHub()
	missing.Register(&recordingService{name: "a", deps: []string{"ghost"}, log: &calls})
	if err := missing.InitAll(); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("Expected ErrMissingDependency, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("No service may run when resolution fails, got %v", calls)
	}
}

func TestHubNamesKeepRegistrationOrder(t *testing.T) {
	var calls []string
	h := NewHub()
	for _, n := range []string{"audio", "settings", "assets"} {
		h.Register(&recordingService{name: n, log: &calls})
	}
	names := h.Names()
	if len(names) != 3 || names[0] != "audio" || names[1] != "settings" || names[2] != "assets" {
		t.Errorf("Unexpected names %v", names)
	}
	if _, ok := h.Get("ghost"); ok {
		t.Error("Expected Get to miss unknown service")
	}
}

func TestHubStopAllIsIdempotent(t *testing.T) {
	var calls []string
	h := NewHub()
	h.Register(&recordingService{name: "settings", log: &calls})
	if err := h.InitAll(); err != nil {
		t.Fatal(err)
	}
	h.StopAll()
	h.StopAll()
	if n := len(calls); n != 2 || calls[1] != "stop:settings" {
		t.Errorf("Expected a single stop, got %v", calls)
	}
}
