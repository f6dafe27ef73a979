package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/sage-audio/asset"
)

// ClipPool holds decoded clips and plays them on a fixed number of voices
// Every ClipID and StreamID it issued becomes invalid on Release
type ClipPool struct {
	mu      sync.Mutex
	out     Output
	config  PoolConfig
	quality int

	clips    map[ClipID]*beep.Buffer
	nextClip ClipID

	voices     []*voice
	nextStream StreamID
	seq        uint64
	released   bool

	// Stats
	played  uint64
	stolen  uint64
	dropped uint64
}

// NewClipPool creates a pool mixing into out
func NewClipPool(out Output, config PoolConfig, quality int) *ClipPool {
	if config.MaxStreams < 1 {
		config.MaxStreams = 1
	}
	return &ClipPool{
		out:     out,
		config:  config,
		quality: quality,
		clips:   make(map[ClipID]*beep.Buffer),
		voices:  make([]*voice, 0, config.MaxStreams),
	}
}

// Config returns the recipe the pool was built with
func (p *ClipPool) Config() PoolConfig {
	return p.config
}

// Load decodes desc into memory and returns its handle
// desc is always closed
func (p *ClipPool) Load(desc *asset.Descriptor) (ClipID, error) {
	p.mu.Lock()
	released := p.released
	p.mu.Unlock()
	if released {
		desc.Close()
		return 0, ErrPoolReleased
	}

	// Decode outside the lock; clips can be large
	buf, err := decodeClip(desc, p.out.SampleRate(), p.quality)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return 0, ErrPoolReleased
	}
	p.nextClip++
	p.clips[p.nextClip] = buf
	return p.nextClip, nil
}

// Unload drops a clip; voices already playing it run to completion
func (p *ClipPool) Unload(id ClipID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.clips[id]; !ok {
		return false
	}
	delete(p.clips, id)
	return true
}

// Play starts a voice for clip id, returning 0 when nothing was started
// When all voices are busy the lowest-priority, oldest voice is stolen if
// its priority does not exceed the request's
func (p *ClipPool) Play(id ClipID, params PlayParams) StreamID {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return 0
	}
	buf, ok := p.clips[id]
	if !ok {
		return 0
	}
	params = params.normalized()

	p.prune()
	if len(p.voices) >= p.config.MaxStreams {
		victim := p.lowestVoice()
		if victim < 0 || p.voices[victim].priority > params.Priority {
			p.dropped++
			return 0
		}
		p.voices[victim].stopped.Store(true)
		p.voices = append(p.voices[:victim], p.voices[victim+1:]...)
		p.stolen++
	}

	p.nextStream++
	p.seq++
	v := newVoice(p.nextStream, id, p.seq, buf, params, p.quality)
	p.voices = append(p.voices, v)
	p.played++

	if ao, ok := p.out.(AttributedOutput); ok && p.config.Attributes != nil {
		ao.PlayAttributed(*p.config.Attributes, v)
	} else {
		p.out.Play(v)
	}
	return v.id
}

// Stop ends a voice early
func (p *ClipPool) Stop(id StreamID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, v := range p.voices {
		if v.id == id {
			v.stopped.Store(true)
			p.voices = append(p.voices[:i], p.voices[i+1:]...)
			return
		}
	}
}

// Pause silences a voice without releasing its slot
func (p *ClipPool) Pause(id StreamID) {
	p.setPaused(id, true)
}

// Resume continues a paused voice
func (p *ClipPool) Resume(id StreamID) {
	p.setPaused(id, false)
}

func (p *ClipPool) setPaused(id StreamID, paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range p.voices {
		if v.id == id {
			p.out.Lock()
			v.paused = paused
			p.out.Unlock()
			return
		}
	}
}

// Active returns the number of voices holding a slot
func (p *ClipPool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prune()
	return len(p.voices)
}

// Clips returns the number of loaded clips
func (p *ClipPool) Clips() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clips)
}

// Release stops every voice and drops every clip; the pool cannot be reused
func (p *ClipPool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	for _, v := range p.voices {
		v.stopped.Store(true)
	}
	p.voices = nil
	p.clips = make(map[ClipID]*beep.Buffer)
	p.released = true
}

// Released reports whether Release was called
func (p *ClipPool) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// GetStats returns played, stolen and dropped trigger counts
func (p *ClipPool) GetStats() (played, stolen, dropped uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.stolen, p.dropped
}

// prune drops finished voices; caller holds mu
func (p *ClipPool) prune() {
	live := p.voices[:0]
	for _, v := range p.voices {
		if v.live() {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(p.voices); i++ {
		p.voices[i] = nil
	}
	p.voices = live
}

// lowestVoice returns the index of the lowest-priority, oldest voice or -1
func (p *ClipPool) lowestVoice() int {
	best := -1
	for i, v := range p.voices {
		if best < 0 {
			best = i
			continue
		}
		b := p.voices[best]
		if v.priority < b.priority || (v.priority == b.priority && v.seq < b.seq) {
			best = i
		}
	}
	return best
}
