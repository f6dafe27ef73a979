package audio

import (
	"errors"
	"fmt"
	"strings"
)

// GameEvent identifies a semantic sound trigger
type GameEvent int

const (
	BalloonHit GameEvent = iota // Balloon popped by the player
	gameEventCount
)

var gameEventNames = [gameEventCount]string{
	BalloonHit: "balloon_hit",
}

func (e GameEvent) String() string {
	if e < 0 || e >= gameEventCount {
		return fmt.Sprintf("GameEvent(%d)", int(e))
	}
	return gameEventNames[e]
}

// ParseGameEvent resolves a snake_case event name, case-insensitive
func ParseGameEvent(s string) (GameEvent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range gameEventNames {
		if name == s {
			return GameEvent(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// GameEvents returns every defined event in declaration order
func GameEvents() []GameEvent {
	events := make([]GameEvent, gameEventCount)
	for i := range events {
		events[i] = GameEvent(i)
	}
	return events
}

// DefaultClips maps events to clip filenames under the sfx prefix
func DefaultClips() map[GameEvent]string {
	return map[GameEvent]string{
		BalloonHit: "balloon_pop.wav",
	}
}

// ClipID is a loaded clip handle, valid only while its pool is alive
type ClipID int

// StreamID is a playing voice handle; zero means nothing was started
type StreamID int

// Sentinel errors
var (
	ErrPoolReleased      = errors.New("clip pool released")
	ErrUnknownClip       = errors.New("unknown clip")
	ErrUnknownEvent      = errors.New("unknown game event")
	ErrIllegalState      = errors.New("illegal music player state")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoOutput          = errors.New("no audio output available")
	ErrNoDataSource      = errors.New("music data source is nil")
)
