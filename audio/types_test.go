package audio

import (
	"errors"
	"testing"
)

// TestGameEventNames verifies String and ParseGameEvent agree
func TestGameEventNames(t *testing.T) {
	for _, e := range GameEvents() {
		got, err := ParseGameEvent(e.String())
		if err != nil {
			t.Fatalf("ParseGameEvent(%q) failed: %v", e.String(), err)
		}
		if got != e {
			t.Errorf("Expected %v, got %v", e, got)
		}
	}

	if got, err := ParseGameEvent("  Balloon_Hit "); err != nil || got != BalloonHit {
		t.Errorf("Expected case-insensitive parse, got %v, %v", got, err)
	}
}

// TestParseGameEventUnknown verifies the sentinel error
func TestParseGameEventUnknown(t *testing.T) {
	if _, err := ParseGameEvent("dragon_slain"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Expected ErrUnknownEvent, got %v", err)
	}
	if s := GameEvent(99).String(); s != "GameEvent(99)" {
		t.Errorf("Unexpected out-of-range name %q", s)
	}
}

// TestDefaultClipsCoverEvents verifies every event has a clip by default
func TestDefaultClipsCoverEvents(t *testing.T) {
	clips := DefaultClips()
	for _, e := range GameEvents() {
		if clips[e] == "" {
			t.Errorf("No default clip for %v", e)
		}
	}
	if clips[BalloonHit] != "balloon_pop.wav" {
		t.Errorf("Unexpected balloon clip %q", clips[BalloonHit])
	}
}

// TestStateNames verifies enum names used in logs
func TestStateNames(t *testing.T) {
	if MusicStarted.String() != "started" || MusicError.String() != "error" {
		t.Errorf("Unexpected music state names")
	}
	if UsageGame.String() == "" {
		t.Error("Expected usage name")
	}
}
