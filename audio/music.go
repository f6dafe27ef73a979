package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/sage-audio/asset"
)

// MusicState is the lifecycle position of a MusicPlayer
type MusicState int

const (
	MusicIdle MusicState = iota
	MusicInitialized
	MusicPrepared
	MusicStarted
	MusicPaused
	MusicStopped
	MusicReleased
	MusicError
)

var musicStateNames = [...]string{
	MusicIdle:        "idle",
	MusicInitialized: "initialized",
	MusicPrepared:    "prepared",
	MusicStarted:     "started",
	MusicPaused:      "paused",
	MusicStopped:     "stopped",
	MusicReleased:    "released",
	MusicError:       "error",
}

func (s MusicState) String() string {
	if s < 0 || int(s) >= len(musicStateNames) {
		return fmt.Sprintf("MusicState(%d)", int(s))
	}
	return musicStateNames[s]
}

// musicTrack is the streamer handed to the output; stopping it detaches it
type musicTrack struct {
	ctrl    *beep.Ctrl
	stopped bool // guarded by the output lock
	ended   bool // guarded by the output lock
}

func (t *musicTrack) Stream(samples [][2]float64) (n int, ok bool) {
	if t.stopped {
		return 0, false
	}
	n, ok = t.ctrl.Stream(samples)
	if !ok {
		t.ended = true
	}
	return n, ok
}

func (t *musicTrack) Err() error {
	return t.ctrl.Err()
}

// MusicPlayer streams one long-form asset with start/pause/stop control
// A player is single-use: once stopped it cannot be started again, a new
// player must be constructed
type MusicPlayer struct {
	mu      sync.Mutex
	out     Output
	quality int
	state   MusicState

	desc        *asset.Descriptor
	looping     bool
	left, right float64

	decoder  beep.StreamSeekCloser
	gain     *channelGain
	track    *musicTrack
	attached bool
}

// NewMusicPlayer creates an idle player on out
func NewMusicPlayer(out Output, quality int) *MusicPlayer {
	return &MusicPlayer{
		out:     out,
		quality: quality,
		left:    1,
		right:   1,
	}
}

// State returns the current lifecycle state
func (m *MusicPlayer) State() MusicState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetDataSource binds the player to an asset window; the player owns desc
func (m *MusicPlayer) SetDataSource(desc *asset.Descriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MusicIdle {
		return fmt.Errorf("%w: set data source in %s", ErrIllegalState, m.state)
	}
	if desc == nil {
		return ErrNoDataSource
	}
	m.desc = desc
	m.state = MusicInitialized
	return nil
}

// SetLooping must be called before Prepare
func (m *MusicPlayer) SetLooping(loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MusicIdle && m.state != MusicInitialized {
		return fmt.Errorf("%w: set looping in %s", ErrIllegalState, m.state)
	}
	m.looping = loop
	return nil
}

// SetVolume sets per-channel volume, 0.0-1.0; applies live once prepared
func (m *MusicPlayer) SetVolume(left, right float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.left, m.right = clamp01(left), clamp01(right)
	if m.gain != nil {
		m.out.Lock()
		m.gain.left, m.gain.right = m.left, m.right
		m.out.Unlock()
	}
}

// Volume returns the per-channel volume
func (m *MusicPlayer) Volume() (left, right float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.left, m.right
}

// Prepare decodes the stream header and builds the playback chain
// Blocks until the asset is readable or fails; failure moves to MusicError
func (m *MusicPlayer) Prepare() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MusicInitialized {
		return fmt.Errorf("%w: prepare in %s", ErrIllegalState, m.state)
	}

	decoder, format, err := decode(m.desc)
	if err != nil {
		m.state = MusicError
		return err
	}
	m.decoder = decoder

	var s beep.Streamer = decoder
	if m.looping {
		s = beep.Loop(-1, decoder)
	}
	s = resampled(s, format.SampleRate, m.out.SampleRate(), m.quality)
	m.gain = &channelGain{Streamer: s, left: m.left, right: m.right}
	m.track = &musicTrack{ctrl: &beep.Ctrl{Streamer: m.gain, Paused: true}}
	m.state = MusicPrepared
	return nil
}

// Start begins or resumes playback
func (m *MusicPlayer) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case MusicPrepared, MusicPaused, MusicStarted:
	default:
		return fmt.Errorf("%w: start in %s", ErrIllegalState, m.state)
	}

	m.out.Lock()
	m.track.ctrl.Paused = false
	m.out.Unlock()
	if !m.attached {
		m.out.Play(m.track)
		m.attached = true
	}
	m.state = MusicStarted
	return nil
}

// Pause holds the playback position
func (m *MusicPlayer) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case MusicStarted, MusicPaused:
	default:
		return fmt.Errorf("%w: pause in %s", ErrIllegalState, m.state)
	}

	m.out.Lock()
	m.track.ctrl.Paused = true
	m.out.Unlock()
	m.state = MusicPaused
	return nil
}

// Stop detaches the stream from the output and closes the decoder
func (m *MusicPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case MusicPrepared, MusicStarted, MusicPaused:
	case MusicStopped:
		return nil
	default:
		return fmt.Errorf("%w: stop in %s", ErrIllegalState, m.state)
	}
	m.stopLocked()
	m.state = MusicStopped
	return nil
}

func (m *MusicPlayer) stopLocked() {
	if m.track != nil {
		m.out.Lock()
		m.track.stopped = true
		m.out.Unlock()
	}
	if m.decoder != nil {
		m.decoder.Close()
		m.decoder = nil
	}
}

// Release frees every resource; valid in any state, idempotent
func (m *MusicPlayer) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MusicReleased {
		return
	}
	m.stopLocked()
	if m.desc != nil {
		m.desc.Close()
		m.desc = nil
	}
	m.state = MusicReleased
}

// IsPlaying reports whether audio is being produced
func (m *MusicPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != MusicStarted {
		return false
	}
	m.out.Lock()
	defer m.out.Unlock()
	return !m.track.ended
}

// IsLooping reports the looping flag
func (m *MusicPlayer) IsLooping() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.looping
}
