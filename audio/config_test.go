package audio

import (
	"testing"
	"time"
)

// TestDefaultConfig verifies built-in configuration
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.Buffer != 100*time.Millisecond {
		t.Errorf("Expected default buffer 100ms, got %s", cfg.Buffer)
	}
	if cfg.MaxStreams != 10 {
		t.Errorf("Expected default max streams 10, got %d", cfg.MaxStreams)
	}
	if cfg.MusicVolume != 0.6 {
		t.Errorf("Expected default music volume 0.6, got %f", cfg.MusicVolume)
	}
	if cfg.SFXPrefix != "sfx/" {
		t.Errorf("Expected sfx/ prefix, got %q", cfg.SFXPrefix)
	}
	if cfg.MusicFile != "sfx/Dean_Caedab_-_Everyday_Success.mp3" {
		t.Errorf("Unexpected default music file %q", cfg.MusicFile)
	}
	if cfg.SoundKey != "com.plattysoft.balloons.sounds.boolean" {
		t.Errorf("Unexpected sound key %q", cfg.SoundKey)
	}
	if cfg.MusicKey != "com.plattysoft.balloons.music.boolean" {
		t.Errorf("Unexpected music key %q", cfg.MusicKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults must validate: %v", err)
	}
}

// TestDefaultConfigIgnoresEnvironment verifies defaults are not env-dependent
func TestDefaultConfigIgnoresEnvironment(t *testing.T) {
	t.Setenv(EnvPrefix+"SAMPLE_RATE", "22050")

	if cfg := DefaultConfig(); cfg.SampleRate != 44100 {
		t.Errorf("Expected DefaultConfig to ignore env, got %d", cfg.SampleRate)
	}
}

// TestLoadConfigFromEnv verifies SAGE_AUDIO_* overrides
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"SAMPLE_RATE", "48000")
	t.Setenv(EnvPrefix+"BUFFER", "50ms")
	t.Setenv(EnvPrefix+"MAX_STREAMS", "4")
	t.Setenv(EnvPrefix+"MUSIC_FILE", "music/theme.wav")
	t.Setenv(EnvPrefix+"SOUND_KEY", "sounds")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("Expected sample rate 48000, got %d", cfg.SampleRate)
	}
	if cfg.Buffer != 50*time.Millisecond {
		t.Errorf("Expected buffer 50ms, got %s", cfg.Buffer)
	}
	if cfg.MaxStreams != 4 {
		t.Errorf("Expected max streams 4, got %d", cfg.MaxStreams)
	}
	if cfg.MusicFile != "music/theme.wav" {
		t.Errorf("Expected music file override, got %q", cfg.MusicFile)
	}
	if cfg.SoundKey != "sounds" {
		t.Errorf("Expected sound key override, got %q", cfg.SoundKey)
	}
	if cfg.MusicKey != DefaultConfig().MusicKey {
		t.Errorf("Expected untouched music key, got %q", cfg.MusicKey)
	}
}

// TestLoadConfigMusicVolumeClamp verifies volume clamping
func TestLoadConfigMusicVolumeClamp(t *testing.T) {
	testCases := []struct {
		value    string
		expected float64
	}{
		{"-0.5", 0.0},
		{"0.25", 0.25},
		{"1.5", 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv(EnvPrefix+"MUSIC_VOLUME", tc.value)
			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if cfg.MusicVolume != tc.expected {
				t.Errorf("Expected MusicVolume=%f for value %s, got %f", tc.expected, tc.value, cfg.MusicVolume)
			}
		})
	}
}

// TestLoadConfigInvalid verifies parse and validation failures surface
func TestLoadConfigInvalid(t *testing.T) {
	testCases := []struct {
		key   string
		value string
	}{
		{"SAMPLE_RATE", "fast"},
		{"SAMPLE_RATE", "-1000"},
		{"SAMPLE_RATE", "0"},
		{"BUFFER", "soon"},
		{"BUFFER", "-1s"},
		{"MAX_STREAMS", "0"},
		{"RESAMPLE_QUALITY", "100"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(EnvPrefix+tc.key, tc.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

// TestValidateRequiresNames verifies empty file and key names are rejected
func TestValidateRequiresNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MusicFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty music file")
	}

	cfg = DefaultConfig()
	cfg.MusicKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty music key")
	}
}
