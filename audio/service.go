package audio

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/lixenwraith/sage-audio/asset"
	"github.com/lixenwraith/sage-audio/settings"
	"github.com/lixenwraith/sage-audio/status"
)

// StoreProvider exposes an initialized settings store
type StoreProvider interface {
	Name() string
	Store() settings.Store
}

// SourceProvider exposes an initialized asset source
type SourceProvider interface {
	Name() string
	Source() asset.Source
}

// AudioService wraps SoundManager as a Service
// Handles graceful degradation when no audio device is available: the
// session still runs on a silent sink so toggles keep persisting
type AudioService struct {
	settings StoreProvider
	assets   SourceProvider

	config  *Config
	out     Output
	speaker *SpeakerOutput
	manager *SoundManager
	metrics *status.Registry

	disabled atomic.Bool
}

// NewService creates an audio service fed by the given providers
func NewService(store StoreProvider, assets SourceProvider) *AudioService {
	return &AudioService{settings: store, assets: assets, metrics: status.NewRegistry()}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return []string{s.settings.Name(), s.assets.Name()}
}

// Init implements Service
// args[0]: Output - optional sink replacing the system speaker
func (s *AudioService) Init(args ...any) error {
	cfg, err := LoadConfig()
	if err != nil {
		log.Warn("audio config rejected, using defaults", "err", err)
		cfg = DefaultConfig()
	}
	s.config = cfg

	if len(args) > 0 {
		if out, ok := args[0].(Output); ok {
			s.out = out
		}
	}
	return nil
}

// Start implements Service
// Opens the speaker when no sink was injected; sets disabled on failure
func (s *AudioService) Start() error {
	if s.out == nil {
		spk, err := NewSpeakerOutput(s.config)
		if err != nil {
			log.Warn("audio device unavailable, continuing silent", "err", err)
			s.disabled.Store(true)
			s.out = NewManualOutput(beep.SampleRate(s.config.SampleRate))
		} else {
			s.speaker = spk
			s.out = spk
		}
	}

	s.manager = NewSoundManager(s.settings.Store(), s.assets.Source(), s.out,
		WithConfig(s.config),
		WithStatus(s.metrics),
	)
	return nil
}

// Stop implements Service
func (s *AudioService) Stop() error {
	if s.manager != nil {
		s.manager.Close()
		s.manager = nil
	}
	if s.speaker != nil {
		s.speaker.Close()
		s.speaker = nil
	}
	return nil
}

// IsDisabled returns true if no audio device could be opened
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Manager returns the session (nil before Start or after Stop)
func (s *AudioService) Manager() *SoundManager {
	return s.manager
}

// Status returns the registry the session publishes into
func (s *AudioService) Status() *status.Registry {
	return s.metrics
}
