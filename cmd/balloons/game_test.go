package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/sage-audio/asset"
	"github.com/lixenwraith/sage-audio/audio"
	"github.com/lixenwraith/sage-audio/settings"
	"github.com/lixenwraith/sage-audio/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) (*Game, *audio.ManualOutput, *settings.Memory) {
	t.Helper()
	dir := t.TempDir()
	cfg := audio.DefaultConfig()
	cfg.SampleRate = 8000
	cfg.MusicFile = audio.GeneratedMusicFile
	_, err := audio.GenerateAssets(dir, cfg)
	require.NoError(t, err)

	out := audio.NewManualOutput(8000)
	store := settings.NewMemory()
	metrics := status.NewRegistry()
	sm := audio.NewSoundManager(store, asset.NewDir(dir), out,
		audio.WithConfig(cfg), audio.WithLogger(log.New(io.Discard)), audio.WithStatus(metrics))
	t.Cleanup(sm.Close)

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 10)
	t.Cleanup(screen.Fini)

	g := NewGame(screen, sm)
	g.metrics = metrics
	return g, out, store
}

func TestPopPlaysHitSound(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.balloons = []Balloon{{rune: 'a', x: 3, y: 4}}

	assert.True(t, g.handleInput(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.Empty(t, g.balloons)
	assert.Equal(t, 1, g.popped)
	assert.Equal(t, 1, g.sound.Pool().Active())
	assert.Equal(t, 3, g.cursorX)
	assert.Equal(t, 4, g.cursorY)
}

func TestMissFlagsCursor(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.balloons = []Balloon{{rune: 'a', x: 3, y: 4}}

	g.handleInput(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))
	assert.True(t, g.cursorError)
	assert.Len(t, g.balloons, 1)
	assert.Zero(t, g.sound.Pool().Active())
}

func TestFunctionKeysToggle(t *testing.T) {
	g, _, store := newTestGame(t)
	cfg := audio.DefaultConfig()

	g.handleInput(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone))
	assert.False(t, g.sound.SoundStatus())
	assert.False(t, store.Bool(cfg.SoundKey, true))

	g.handleInput(tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone))
	assert.False(t, g.sound.MusicStatus())
	assert.False(t, store.Bool(cfg.MusicKey, true))
	assert.Nil(t, g.sound.Music())
}

func TestFocusPausesMusic(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.sound.ResumeBgMusic()
	require.True(t, g.sound.Music().IsPlaying())

	g.handleInput(tcell.NewEventFocus(false))
	assert.Equal(t, audio.MusicPaused, g.sound.Music().State())

	g.handleInput(tcell.NewEventFocus(true))
	assert.Equal(t, audio.MusicStarted, g.sound.Music().State())

	// A player pause survives focus changes
	g.handleInput(tcell.NewEventKey(tcell.KeyF4, 0, tcell.ModNone))
	g.handleInput(tcell.NewEventFocus(true))
	assert.Equal(t, audio.MusicPaused, g.sound.Music().State())
}

func TestEscapeQuits(t *testing.T) {
	g, _, _ := newTestGame(t)
	assert.False(t, g.handleInput(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestDrawStatus(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.draw()

	sim := g.screen.(tcell.SimulationScreen)
	cells, width, _ := sim.GetContents()
	line := make([]rune, 0, width)
	for _, c := range cells[:width] {
		line = append(line, c.Runes...)
	}
	assert.Contains(t, string(line), "popped 0")
	assert.Contains(t, string(line), "F2 sound: on")
}

func TestBurstExpires(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.balloons = []Balloon{{rune: 'q', x: 5, y: 5, color: tcell.ColorRed}}
	g.pop('q')
	require.Len(t, g.bursts, 1)

	g.expireBursts(g.bursts[0].at.Add(burstDuration / 2))
	assert.Len(t, g.bursts, 1)
	g.expireBursts(g.bursts[0].at.Add(burstDuration))
	assert.Empty(t, g.bursts)
}
