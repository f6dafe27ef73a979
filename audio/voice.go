package audio

import (
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// PlayParams controls a single clip trigger
type PlayParams struct {
	Left, Right float64 // Channel volume, 0.0-1.0
	Priority    int     // 0 is lowest; higher priorities win voice stealing
	Loop        int     // 0 plays once, -1 loops forever, n repeats n extra times
	Rate        float64 // Playback rate, 0.5-2.0
}

// DefaultPlayParams is full stereo volume, lowest priority, no loop, normal rate
var DefaultPlayParams = PlayParams{Left: 1, Right: 1, Priority: 0, Loop: 0, Rate: 1}

const (
	minRate = 0.5
	maxRate = 2.0
)

// normalized clamps params into their valid ranges
func (p PlayParams) normalized() PlayParams {
	p.Left = clamp01(p.Left)
	p.Right = clamp01(p.Right)
	if p.Priority < 0 {
		p.Priority = 0
	}
	if p.Loop < -1 {
		p.Loop = -1
	}
	switch {
	case p.Rate == 0:
		p.Rate = 1
	case p.Rate < minRate:
		p.Rate = minRate
	case p.Rate > maxRate:
		p.Rate = maxRate
	}
	return p
}

// voice is one playing instance of a clip
// paused is guarded by the output lock; stopped and done are read by the pool
// without it
type voice struct {
	id       StreamID
	clip     ClipID
	priority int
	seq      uint64
	src      beep.Streamer

	paused  bool
	stopped atomic.Bool
	done    atomic.Bool
}

// newVoice builds the effect chain for one trigger of buf
func newVoice(id StreamID, clip ClipID, seq uint64, buf *beep.Buffer, p PlayParams, quality int) *voice {
	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if p.Loop != 0 {
		count := -1
		if p.Loop > 0 {
			count = p.Loop + 1
		}
		s = beep.Loop(count, buf.Streamer(0, buf.Len()))
	}
	if p.Rate != 1 {
		s = beep.ResampleRatio(quality, p.Rate, s)
	}
	s = stereoVolume(s, p.Left, p.Right)

	return &voice{
		id:       id,
		clip:     clip,
		priority: p.Priority,
		seq:      seq,
		src:      s,
	}
}

// stereoVolume scales each channel independently
func stereoVolume(s beep.Streamer, left, right float64) beep.Streamer {
	if left == 1 && right == 1 {
		return s
	}
	if left == right {
		return &effects.Gain{Streamer: s, Gain: left - 1}
	}
	return &channelGain{Streamer: s, left: left, right: right}
}

type channelGain struct {
	beep.Streamer
	left, right float64
}

func (g *channelGain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.Streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.left
		samples[i][1] *= g.right
	}
	return n, ok
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.stopped.Load() {
		v.done.Store(true)
		return 0, false
	}
	if v.paused {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	n, ok = v.src.Stream(samples)
	if !ok {
		v.done.Store(true)
	}
	return n, ok
}

func (v *voice) Err() error {
	return v.src.Err()
}

// live reports whether the voice still holds a pool slot
func (v *voice) live() bool {
	return !v.done.Load() && !v.stopped.Load()
}
