package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Output is the device-facing sink voices are mixed into
// Streamers handed to Play are pulled from another goroutine; any mutation
// of a playing streamer must happen between Lock and Unlock
type Output interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// AttributedOutput routes streams by declared usage
type AttributedOutput interface {
	Output
	PlayAttributed(attrs Attributes, s beep.Streamer)
}

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// usageBus mixes every stream of one usage behind a shared gain
type usageBus struct {
	mixer *beep.Mixer
	gain  *effects.Gain
}

// SpeakerOutput plays through the system audio device via beep/speaker
// The speaker is process-global; the first successful init fixes its rate
type SpeakerOutput struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	buses map[Usage]*usageBus
}

// NewSpeakerOutput initializes the device once per process
func NewSpeakerOutput(cfg *Config) (*SpeakerOutput, error) {
	speakerOnce.Do(func() {
		sr := beep.SampleRate(cfg.SampleRate)
		speakerErr = speaker.Init(sr, sr.N(cfg.Buffer))
		speakerRate = sr
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, speakerErr)
	}
	return &SpeakerOutput{
		rate:  speakerRate,
		buses: make(map[Usage]*usageBus),
	}, nil
}

// SampleRate implements Output
func (o *SpeakerOutput) SampleRate() beep.SampleRate { return o.rate }

// Play implements Output
func (o *SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

// Lock implements Output
func (o *SpeakerOutput) Lock() { speaker.Lock() }

// Unlock implements Output
func (o *SpeakerOutput) Unlock() { speaker.Unlock() }

// PlayAttributed implements AttributedOutput
func (o *SpeakerOutput) PlayAttributed(attrs Attributes, s beep.Streamer) {
	b := o.bus(attrs.Usage)
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}

// SetUsageVolume scales every stream of a usage, v in [0, 1]
func (o *SpeakerOutput) SetUsageVolume(u Usage, v float64) {
	b := o.bus(u)
	speaker.Lock()
	b.gain.Gain = clamp01(v) - 1
	speaker.Unlock()
}

// bus returns the usage bus, attaching it to the speaker on first use
func (o *SpeakerOutput) bus(u Usage) *usageBus {
	o.mu.Lock()
	defer o.mu.Unlock()
	if b, ok := o.buses[u]; ok {
		return b
	}
	mixer := &beep.Mixer{}
	b := &usageBus{mixer: mixer, gain: &effects.Gain{Streamer: mixer}}
	o.buses[u] = b
	// speaker.Play takes the speaker lock; must not be called under it
	speaker.Play(b.gain)
	return b
}

// Close stops all playback on the device
func (o *SpeakerOutput) Close() {
	o.mu.Lock()
	o.buses = make(map[Usage]*usageBus)
	o.mu.Unlock()
	speaker.Clear()
}

// ManualOutput mixes into memory and only advances when pulled
// Used for offline rendering and as a silent sink when no device exists
type ManualOutput struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  beep.Mixer
	plays  int
	routed map[Usage]int
}

// NewManualOutput creates a pull-driven output at rate
func NewManualOutput(rate beep.SampleRate) *ManualOutput {
	return &ManualOutput{
		rate:   rate,
		routed: make(map[Usage]int),
	}
}

// SampleRate implements Output
func (o *ManualOutput) SampleRate() beep.SampleRate { return o.rate }

// Play implements Output
func (o *ManualOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	o.mixer.Add(s)
	o.plays++
	o.mu.Unlock()
}

// Lock implements Output
func (o *ManualOutput) Lock() { o.mu.Lock() }

// Unlock implements Output
func (o *ManualOutput) Unlock() { o.mu.Unlock() }

// Pull mixes the next n frames
func (o *ManualOutput) Pull(n int) [][2]float64 {
	buf := make([][2]float64, n)
	o.mu.Lock()
	o.mixer.Stream(buf)
	o.mu.Unlock()
	return buf
}

// Advance pulls and discards d worth of audio
func (o *ManualOutput) Advance(d time.Duration) {
	o.Pull(o.rate.N(d))
}

// Streaming returns the number of streamers still attached to the mix
func (o *ManualOutput) Streaming() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Len()
}

// Plays returns how many streamers were ever handed to the output
func (o *ManualOutput) Plays() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.plays
}

// Routed returns how many attributed streams were played per usage
func (o *ManualOutput) Routed(u Usage) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.routed[u]
}

// Render encodes d of the live mix as 16-bit stereo WAV
func (o *ManualOutput) Render(w io.WriteSeeker, d time.Duration) error {
	pull := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.mixer.Stream(samples)
	})
	format := beep.Format{SampleRate: o.rate, NumChannels: 2, Precision: 2}
	return wav.Encode(w, beep.Take(o.rate.N(d), pull), format)
}

// AttributedManualOutput is a ManualOutput that accepts usage routing
type AttributedManualOutput struct {
	*ManualOutput
}

// NewAttributedManualOutput creates a pull-driven output that records routing
func NewAttributedManualOutput(rate beep.SampleRate) *AttributedManualOutput {
	return &AttributedManualOutput{ManualOutput: NewManualOutput(rate)}
}

// PlayAttributed implements AttributedOutput
func (o *AttributedManualOutput) PlayAttributed(attrs Attributes, s beep.Streamer) {
	o.mu.Lock()
	o.mixer.Add(s)
	o.plays++
	o.routed[attrs.Usage]++
	o.mu.Unlock()
}
