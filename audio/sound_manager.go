package audio

import (
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/lixenwraith/sage-audio/asset"
	"github.com/lixenwraith/sage-audio/settings"
	"github.com/lixenwraith/sage-audio/status"
)

// LoadResult is the outcome of loading one asset
type LoadResult struct {
	Event GameEvent // Zero for music
	Path  string
	Err   error
}

// Report collects the results of the most recent load of each subsystem
type Report struct {
	Sounds []LoadResult
	Music  *LoadResult
}

// OK reports whether every attempted load succeeded
func (r Report) OK() bool {
	for _, s := range r.Sounds {
		if s.Err != nil {
			return false
		}
	}
	return r.Music == nil || r.Music.Err == nil
}

// Err joins every load failure, nil when all succeeded
func (r Report) Err() error {
	var errs []error
	for _, s := range r.Sounds {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	if r.Music != nil && r.Music.Err != nil {
		errs = append(errs, r.Music.Err)
	}
	return errors.Join(errs...)
}

// SoundManager owns the effect pool and background music of a game session
// Enablement of each subsystem is mirrored to a settings store on every toggle
// Load failures are logged and leave the subsystem inert; they never surface
// as errors, see Report for the structured outcome
type SoundManager struct {
	mu sync.Mutex

	config  *Config
	logger  *log.Logger
	store   settings.Store
	assets  asset.Source
	out     Output
	builder PoolBuilder
	clips   map[GameEvent]string

	soundEnabled bool
	musicEnabled bool

	pool     *ClipPool
	registry map[GameEvent]ClipID
	music    *MusicPlayer

	report  Report
	metrics *status.Registry
}

// Option customizes a SoundManager
type Option func(*SoundManager)

// WithConfig replaces the default configuration
func WithConfig(cfg *Config) Option {
	return func(sm *SoundManager) {
		if cfg != nil {
			sm.config = cfg
		}
	}
}

// WithLogger replaces the default logger
func WithLogger(l *log.Logger) Option {
	return func(sm *SoundManager) {
		if l != nil {
			sm.logger = l
		}
	}
}

// WithClips replaces the event to filename table
func WithClips(clips map[GameEvent]string) Option {
	return func(sm *SoundManager) {
		sm.clips = clips
	}
}

// WithPoolBuilder overrides output capability detection
func WithPoolBuilder(b PoolBuilder) Option {
	return func(sm *SoundManager) {
		sm.builder = b
	}
}

// WithStatus publishes session state into r after every operation
func WithStatus(r *status.Registry) Option {
	return func(sm *SoundManager) {
		sm.metrics = r
	}
}

// NewSoundManager reads the persisted flags and loads every enabled subsystem
// A nil output falls back to a silent in-memory sink
func NewSoundManager(store settings.Store, assets asset.Source, out Output, opts ...Option) *SoundManager {
	sm := &SoundManager{
		config:   DefaultConfig(),
		logger:   log.Default().WithPrefix("audio"),
		store:    store,
		assets:   assets,
		out:      out,
		clips:    DefaultClips(),
		registry: make(map[GameEvent]ClipID),
	}
	for _, opt := range opts {
		opt(sm)
	}
	if err := sm.config.Validate(); err != nil {
		sm.logger.Warn("invalid audio config, using defaults", "err", err)
		sm.config = DefaultConfig()
	}
	if sm.out == nil {
		sm.logger.Warn("no audio output, playing into a silent sink")
		sm.out = NewManualOutput(beep.SampleRate(sm.config.SampleRate))
	}
	if sm.builder == nil {
		sm.builder = DetectPoolBuilder(sm.out)
	}

	sm.soundEnabled = store.Bool(sm.config.SoundKey, true)
	sm.musicEnabled = store.Bool(sm.config.MusicKey, true)
	sm.logger.Debug("session flags loaded", "sound", sm.soundEnabled, "music", sm.musicEnabled, "pool", sm.builder.Name())

	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()
	if sm.soundEnabled {
		sm.loadSounds()
	}
	if sm.musicEnabled {
		sm.loadMusic()
	}
	return sm
}

// PlaySoundForGameEvent triggers the clip bound to event
// No-op when sound is disabled or the event has no loaded clip
func (sm *SoundManager) PlaySoundForGameEvent(event GameEvent) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()

	if !sm.soundEnabled || sm.pool == nil {
		return
	}
	id, ok := sm.registry[event]
	if !ok {
		return
	}
	sm.pool.Play(id, DefaultPlayParams)
}

// PauseBgMusic pauses music; no-op when disabled or nothing is loaded
func (sm *SoundManager) PauseBgMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()
	sm.pauseMusic()
}

// ResumeBgMusic starts music; no-op when disabled or nothing is loaded
func (sm *SoundManager) ResumeBgMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()
	sm.resumeMusic()
}

// ToggleSoundStatus flips effect enablement and persists it, returns the new state
func (sm *SoundManager) ToggleSoundStatus() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()

	sm.soundEnabled = !sm.soundEnabled
	if sm.soundEnabled {
		sm.loadSounds()
	} else {
		sm.unloadSounds()
	}
	sm.persist(sm.config.SoundKey, sm.soundEnabled)
	return sm.soundEnabled
}

// ToggleMusicStatus flips music enablement and persists it, returns the new state
// Enabling starts playback immediately
func (sm *SoundManager) ToggleMusicStatus() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()

	sm.musicEnabled = !sm.musicEnabled
	if sm.musicEnabled {
		sm.loadMusic()
		sm.resumeMusic()
	} else {
		sm.unloadMusic()
	}
	sm.persist(sm.config.MusicKey, sm.musicEnabled)
	return sm.musicEnabled
}

// MusicStatus reports whether music is enabled
func (sm *SoundManager) MusicStatus() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.musicEnabled
}

// SoundStatus reports whether sound effects are enabled
func (sm *SoundManager) SoundStatus() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.soundEnabled
}

// Report returns the results of the latest loads
func (sm *SoundManager) Report() Report {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	r := Report{Sounds: slices.Clone(sm.report.Sounds)}
	if sm.report.Music != nil {
		m := *sm.report.Music
		r.Music = &m
	}
	return r
}

// Pool exposes the live clip pool, nil while sound is unloaded
func (sm *SoundManager) Pool() *ClipPool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.pool
}

// Music exposes the live music player, nil while no music is loaded
func (sm *SoundManager) Music() *MusicPlayer {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.music
}

// Close releases both subsystems without touching persisted flags
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	defer sm.publish()
	sm.unloadSounds()
	sm.unloadMusic()
}

// loadSounds builds a fresh pool and loads every clip in the table
func (sm *SoundManager) loadSounds() {
	if sm.pool != nil {
		sm.unloadSounds()
	}
	sm.pool = BuildPool(sm.builder, sm.out, sm.config)
	sm.registry = make(map[GameEvent]ClipID, len(sm.clips))
	sm.report.Sounds = sm.report.Sounds[:0]

	events := make([]GameEvent, 0, len(sm.clips))
	for e := range sm.clips {
		events = append(events, e)
	}
	slices.Sort(events)
	for _, e := range events {
		sm.loadEventSound(e, sm.clips[e])
	}
}

func (sm *SoundManager) loadEventSound(event GameEvent, filename string) {
	p := sm.config.SFXPrefix + filename
	result := LoadResult{Event: event, Path: p}
	defer func() { sm.report.Sounds = append(sm.report.Sounds, result) }()

	desc, err := sm.assets.Open(p)
	if err != nil {
		sm.logger.Warn("sound load failed", "event", event, "path", p, "err", err)
		result.Err = err
		return
	}
	id, err := sm.pool.Load(desc)
	if err != nil {
		sm.logger.Warn("sound load failed", "event", event, "path", p, "err", err)
		result.Err = err
		return
	}
	sm.registry[event] = id
	sm.logger.Debug("sound loaded", "event", event, "path", p, "clip", id)
}

func (sm *SoundManager) unloadSounds() {
	if sm.pool != nil {
		sm.pool.Release()
		sm.pool = nil
	}
	clear(sm.registry)
}

// loadMusic always constructs a new player; a stopped player is never reused
func (sm *SoundManager) loadMusic() {
	sm.unloadMusic()

	p := sm.config.MusicFile
	result := &LoadResult{Path: p}
	sm.report.Music = result

	desc, err := sm.assets.Open(p)
	if err != nil {
		sm.logger.Warn("music load failed", "path", p, "err", err)
		result.Err = err
		return
	}

	player := NewMusicPlayer(sm.out, sm.config.ResampleQuality)
	if err := player.SetDataSource(desc); err != nil {
		sm.logger.Warn("music load failed", "path", p, "err", err)
		if desc != nil {
			desc.Close()
		}
		result.Err = err
		return
	}
	player.SetLooping(true)
	player.SetVolume(sm.config.MusicVolume, sm.config.MusicVolume)
	if err := player.Prepare(); err != nil {
		sm.logger.Warn("music load failed", "path", p, "err", err)
		player.Release()
		result.Err = err
		return
	}
	sm.music = player
	sm.logger.Debug("music loaded", "path", p)
}

func (sm *SoundManager) unloadMusic() {
	if sm.music == nil {
		return
	}
	if err := sm.music.Stop(); err != nil {
		sm.logger.Debug("music stop", "err", err)
	}
	sm.music.Release()
	sm.music = nil
}

func (sm *SoundManager) pauseMusic() {
	if !sm.musicEnabled || sm.music == nil {
		return
	}
	if err := sm.music.Pause(); err != nil {
		sm.logger.Debug("music pause ignored", "err", err)
	}
}

func (sm *SoundManager) resumeMusic() {
	if !sm.musicEnabled || sm.music == nil {
		return
	}
	if err := sm.music.Start(); err != nil {
		sm.logger.Warn("music start failed", "err", err)
	}
}

// persist writes a flag through to the store; failures are logged only
func (sm *SoundManager) persist(key string, value bool) {
	if err := sm.store.SetBool(key, value); err != nil {
		sm.logger.Error("preference write failed", "key", key, "value", value, "err", err)
	}
}

// publish mirrors session state into the status registry
func (sm *SoundManager) publish() {
	if sm.metrics == nil {
		return
	}
	m := sm.metrics
	m.Bools.Get("audio.sound_enabled").Store(sm.soundEnabled)
	m.Bools.Get("audio.music_enabled").Store(sm.musicEnabled)
	m.Ints.Get("audio.clips_loaded").Store(int64(len(sm.registry)))

	var played, stolen, dropped uint64
	active := 0
	if sm.pool != nil {
		played, stolen, dropped = sm.pool.GetStats()
		active = sm.pool.Active()
	}
	m.Ints.Get("pool.active").Store(int64(active))
	m.Ints.Get("pool.played").Store(int64(played))
	m.Ints.Get("pool.stolen").Store(int64(stolen))
	m.Ints.Get("pool.dropped").Store(int64(dropped))

	state, volume := "unloaded", 0.0
	if sm.music != nil {
		state = sm.music.State().String()
		volume, _ = sm.music.Volume()
	}
	m.Strings.Get("music.state").Store(state)
	m.Floats.Get("music.volume").Store(volume)
}
