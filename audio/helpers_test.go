package audio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/lixenwraith/sage-audio/asset"
	"github.com/lixenwraith/sage-audio/settings"
)

const testRate = beep.SampleRate(8000)

// testConfig keeps sample counts small and points music at the generated loop
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.SampleRate = int(testRate)
	cfg.MusicFile = GeneratedMusicFile
	return cfg
}

// quietLogger discards session logs
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// writeAssets generates the full default asset set under a temp dir
func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := GenerateAssets(dir, testConfig()); err != nil {
		t.Fatalf("GenerateAssets failed: %v", err)
	}
	return dir
}

func removeAsset(t *testing.T, dir, rel string) {
	t.Helper()
	if err := os.Remove(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
		t.Fatalf("remove %s: %v", rel, err)
	}
}

// openClip opens the generated pop clip
func openClip(t *testing.T, dir string) *asset.Descriptor {
	t.Helper()
	d, err := asset.NewDir(dir).Open("sfx/balloon_pop.wav")
	if err != nil {
		t.Fatalf("open clip: %v", err)
	}
	return d
}

func newTestManager(t *testing.T, store settings.Store, dir string, out Output, opts ...Option) *SoundManager {
	t.Helper()
	opts = append([]Option{WithConfig(testConfig()), WithLogger(quietLogger())}, opts...)
	sm := NewSoundManager(store, asset.NewDir(dir), out, opts...)
	t.Cleanup(sm.Close)
	return sm
}

// failingStore accepts reads and rejects every write
type failingStore struct {
	*settings.Memory
}

func (failingStore) SetBool(string, bool) error {
	return errors.New("disk full")
}

// energy sums absolute sample values over d of output
func energy(out *ManualOutput, d time.Duration) float64 {
	total := 0.0
	for _, s := range out.Pull(testRate.N(d)) {
		total += abs(s[0]) + abs(s[1])
	}
	return total
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
