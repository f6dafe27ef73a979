package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/wav"
	"github.com/lixenwraith/sage-audio/audio"
	"github.com/lixenwraith/sage-audio/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// setup generates assets and returns the asset dir and a settings path
func setup(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv(audio.EnvPrefix+"SAMPLE_RATE", "8000")
	t.Setenv(audio.EnvPrefix+"MUSIC_FILE", audio.GeneratedMusicFile)

	dir := filepath.Join(t.TempDir(), "assets")
	out, err := run(t, "gen-assets", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "balloon_pop.wav")
	assert.Contains(t, out, audio.EnvPrefix+"MUSIC_FILE")

	return dir, filepath.Join(t.TempDir(), "prefs.yaml")
}

func TestStatusFreshInstall(t *testing.T) {
	dir, prefs := setup(t)

	out, err := run(t, "status", "--assets", dir, "--settings", prefs)
	require.NoError(t, err)
	assert.Contains(t, out, "sound: on")
	assert.Contains(t, out, "music: on")
	assert.Contains(t, out, "balloon_hit")
	assert.NotContains(t, out, "error:")
}

func TestStatusVerboseMetrics(t *testing.T) {
	dir, prefs := setup(t)

	out, err := run(t, "status", "-v", "--assets", dir, "--settings", prefs)
	require.NoError(t, err)
	assert.Contains(t, out, "audio.clips_loaded")
	assert.Contains(t, out, "music.state")
	assert.Contains(t, out, "prepared")
}

func TestStatusReportsMissingAssets(t *testing.T) {
	_, prefs := setup(t)

	out, err := run(t, "status", "--assets", t.TempDir(), "--settings", prefs)
	require.NoError(t, err)
	assert.Contains(t, out, "error:")
}

func TestTogglePersists(t *testing.T) {
	dir, prefs := setup(t)

	out, err := run(t, "toggle", "music", "--assets", dir, "--settings", prefs)
	require.NoError(t, err)
	assert.Equal(t, "music: off\n", out)

	out, err = run(t, "status", "--assets", dir, "--settings", prefs)
	require.NoError(t, err)
	assert.Contains(t, out, "music: off")
	assert.Contains(t, out, "sound: on")

	store, err := settings.OpenFile(prefs)
	require.NoError(t, err)
	defer store.Close()
	assert.False(t, store.Bool(audio.DefaultConfig().MusicKey, true))
}

func TestToggleRejectsUnknownTarget(t *testing.T) {
	dir, prefs := setup(t)

	_, err := run(t, "toggle", "volume", "--assets", dir, "--settings", prefs)
	assert.Error(t, err)
}

func TestPlayRejectsUnknownEvent(t *testing.T) {
	_, err := run(t, "play", "dragon_slain")
	assert.ErrorIs(t, err, audio.ErrUnknownEvent)
}

func TestRenderWritesWAV(t *testing.T) {
	dir, prefs := setup(t)
	target := filepath.Join(t.TempDir(), "mix.wav")

	out, err := run(t, "render", target, "--music", "--duration", "500ms", "--assets", dir, "--settings", prefs)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	s, format, err := wav.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8000, int(format.SampleRate))
	assert.Equal(t, format.SampleRate.N(500*time.Millisecond), s.Len())
}
