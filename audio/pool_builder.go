package audio

// StreamType selects the legacy output stream a pool plays on
type StreamType int

const (
	StreamDefault StreamType = iota
	StreamMusic
	StreamNotification
)

// Usage declares why a stream plays, used for routing and ducking
type Usage int

const (
	UsageUnknown Usage = iota
	UsageMedia
	UsageGame
	UsageNotification
)

func (u Usage) String() string {
	switch u {
	case UsageMedia:
		return "media"
	case UsageGame:
		return "game"
	case UsageNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// ContentType declares what a stream contains
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentSpeech
	ContentMusic
	ContentSonification
)

// Attributes tag a stream for platform-level routing
type Attributes struct {
	Usage       Usage
	ContentType ContentType
}

// PoolConfig is the construction recipe of a ClipPool
type PoolConfig struct {
	MaxStreams int
	StreamType StreamType
	SrcQuality int         // 0 selects the session's resample quality
	Attributes *Attributes // nil on the legacy path
}

// PoolBuilder produces the pool configuration for one output capability
// The set of builders is closed: LegacyPoolBuilder and AttributesPoolBuilder
type PoolBuilder interface {
	Name() string
	poolConfig(maxStreams int) PoolConfig
}

type legacyPoolBuilder struct{}

func (legacyPoolBuilder) Name() string { return "legacy" }

func (legacyPoolBuilder) poolConfig(maxStreams int) PoolConfig {
	return PoolConfig{
		MaxStreams: maxStreams,
		StreamType: StreamMusic,
		SrcQuality: 0,
	}
}

type attributesPoolBuilder struct{}

func (attributesPoolBuilder) Name() string { return "attributes" }

func (attributesPoolBuilder) poolConfig(maxStreams int) PoolConfig {
	return PoolConfig{
		MaxStreams: maxStreams,
		StreamType: StreamDefault,
		Attributes: &Attributes{
			Usage:       UsageGame,
			ContentType: ContentMusic,
		},
	}
}

var (
	// LegacyPoolBuilder targets outputs without attribute routing
	LegacyPoolBuilder PoolBuilder = legacyPoolBuilder{}
	// AttributesPoolBuilder tags voices as game audio for attributed outputs
	AttributesPoolBuilder PoolBuilder = attributesPoolBuilder{}
)

// DetectPoolBuilder picks the best builder the output supports
func DetectPoolBuilder(out Output) PoolBuilder {
	if _, ok := out.(AttributedOutput); ok {
		return AttributesPoolBuilder
	}
	return LegacyPoolBuilder
}

// BuildPool constructs a clip pool on out with the builder's recipe
func BuildPool(b PoolBuilder, out Output, cfg *Config) *ClipPool {
	pc := b.poolConfig(cfg.MaxStreams)
	quality := pc.SrcQuality
	if quality == 0 {
		quality = cfg.ResampleQuality
	}
	return NewClipPool(out, pc, quality)
}
