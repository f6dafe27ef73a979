package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

const (
	popDuration  = 180 * time.Millisecond
	loopDuration = 2400 * time.Millisecond // four beats at 100 BPM
)

// popGenerator is a noise burst over a falling thump, the sound of a balloon
type popGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

func (g *popGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Sharp attack, fast exponential decay
		envelope := math.Exp(-t * 28)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		thumpFreq := 180 * math.Exp(-t*10)
		thump := 0.5 * math.Sin(2*math.Pi*thumpFreq*t)

		sample := envelope * (0.45*noise + thump)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *popGenerator) Err() error { return nil }

// NewPopStreamer returns a finite balloon pop at sr
func NewPopStreamer(sr beep.SampleRate) beep.Streamer {
	return beep.Take(sr.N(popDuration), &popGenerator{sr: sr, seed: 42})
}

// kickGenerator is a pitched-down kick on every beat
type kickGenerator struct {
	sr   beep.SampleRate
	pos  int
	beat int
}

func (g *kickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	kickLen := g.sr.N(100 * time.Millisecond)
	for i := range samples {
		beatPos := g.pos % g.beat
		sample := 0.0
		if beatPos < kickLen {
			t := float64(beatPos) / float64(g.sr)
			env := 1.0 - float64(beatPos)/float64(kickLen)
			sample = 0.4 * env * math.Sin(2*math.Pi*60*(1+2*env)*t)
		}
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *kickGenerator) Err() error { return nil }

// NewLoopStreamer returns one seamless bar of background music at sr
func NewLoopStreamer(sr beep.SampleRate) (beep.Streamer, error) {
	bass, err := generators.SineTone(sr, 110)
	if err != nil {
		return nil, fmt.Errorf("bass tone: %w", err)
	}
	kick := &kickGenerator{sr: sr, beat: sr.N(600 * time.Millisecond)}
	mix := beep.Mix(kick, &channelGain{Streamer: bass, left: 0.15, right: 0.15})
	return beep.Take(sr.N(loopDuration), mix), nil
}

// writeWAV encodes s as 16-bit stereo WAV at path
func writeWAV(path string, s beep.Streamer, sr beep.SampleRate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, s, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// GeneratedMusicFile is the music path GenerateAssets writes
const GeneratedMusicFile = "sfx/background_loop.wav"

// GenerateAssets writes placeholder clips for every default event and a
// music loop under dir, returning the relative paths written
func GenerateAssets(dir string, cfg *Config) ([]string, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	var written []string

	for _, name := range DefaultClips() {
		rel := cfg.SFXPrefix + name
		if err := writeWAV(filepath.Join(dir, filepath.FromSlash(rel)), NewPopStreamer(sr), sr); err != nil {
			return written, err
		}
		written = append(written, rel)
	}

	loop, err := NewLoopStreamer(sr)
	if err != nil {
		return written, err
	}
	if err := writeWAV(filepath.Join(dir, filepath.FromSlash(GeneratedMusicFile)), loop, sr); err != nil {
		return written, err
	}
	return append(written, GeneratedMusicFile), nil
}
