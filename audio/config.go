package audio

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every audio environment variable
const EnvPrefix = "SAGE_AUDIO_"

// Config holds the tunables of an audio session
type Config struct {
	SampleRate int           `env:"SAMPLE_RATE" envDefault:"44100"`
	Buffer     time.Duration `env:"BUFFER" envDefault:"100ms"`

	// Clip pool
	MaxStreams      int    `env:"MAX_STREAMS" envDefault:"10"`
	ResampleQuality int    `env:"RESAMPLE_QUALITY" envDefault:"4"`
	SFXPrefix       string `env:"SFX_PREFIX" envDefault:"sfx/"`

	// Background music
	MusicFile   string  `env:"MUSIC_FILE" envDefault:"sfx/Dean_Caedab_-_Everyday_Success.mp3"`
	MusicVolume float64 `env:"MUSIC_VOLUME" envDefault:"0.6"`

	// Persisted preference keys
	SoundKey string `env:"SOUND_KEY" envDefault:"com.plattysoft.balloons.sounds.boolean"`
	MusicKey string `env:"MUSIC_KEY" envDefault:"com.plattysoft.balloons.music.boolean"`
}

// DefaultConfig returns the built-in configuration, ignoring the environment
func DefaultConfig() *Config {
	cfg := &Config{}
	// Empty environment leaves only envDefault values
	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("audio: invalid config defaults: %v", err))
	}
	return cfg
}

// LoadConfig reads SAGE_AUDIO_* variables over the defaults
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse audio env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unusable values and clamps volume into [0, 1]
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.Buffer <= 0 {
		return fmt.Errorf("buffer duration must be positive, got %s", c.Buffer)
	}
	if c.MaxStreams < 1 {
		return fmt.Errorf("max streams must be at least 1, got %d", c.MaxStreams)
	}
	if c.ResampleQuality < 1 || c.ResampleQuality > 64 {
		return fmt.Errorf("resample quality must be in [1, 64], got %d", c.ResampleQuality)
	}
	if c.MusicFile == "" {
		return fmt.Errorf("music file must be set")
	}
	if c.SoundKey == "" || c.MusicKey == "" {
		return fmt.Errorf("preference keys must be set")
	}
	c.MusicVolume = clamp01(c.MusicVolume)
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
