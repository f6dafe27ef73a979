package audio

import (
	"fmt"
	"path"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/lixenwraith/sage-audio/asset"
)

// decode opens a streaming decoder over desc, picked by file extension
// Closing the returned streamer closes desc
func decode(desc *asset.Descriptor) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(path.Ext(desc.Name)); ext {
	case ".wav":
		s, format, err = wav.Decode(desc.Stream())
	case ".mp3":
		s, format, err = mp3.Decode(desc.Stream())
	default:
		desc.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Name)
	}
	if err != nil {
		desc.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", desc.Name, err)
	}
	return s, format, nil
}

// resampled converts s to rate when the source differs
func resampled(s beep.Streamer, from, to beep.SampleRate, quality int) beep.Streamer {
	if from == to {
		return s
	}
	return beep.Resample(quality, from, to, s)
}

// decodeClip fully decodes desc into a buffer at the output rate
func decodeClip(desc *asset.Descriptor, rate beep.SampleRate, quality int) (*beep.Buffer, error) {
	s, format, err := decode(desc)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(resampled(s, format.SampleRate, rate, quality))
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", desc.Name, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("decode %s: %w: no samples", desc.Name, ErrUnsupportedFormat)
	}
	return buf, nil
}
