// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/ik5/audpeaks/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameParser is the part of flac.Stream used by source, split out for tests
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

type source struct {
	stream     frameParser
	closer     io.Closer
	sampleRate int
	channels   int
	scale      float32

	// interleaved samples of the current frame not yet handed out
	pending []float32
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(dst) {
		if len(s.pending) == 0 {
			if err := s.nextFrame(); err != nil {
				if n > 0 && err == io.EOF {
					return n, nil
				}
				return n, err
			}
			continue
		}

		c := copy(dst[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}

	return n, nil
}

func (s *source) nextFrame() error {
	f, err := s.stream.ParseNext()
	if err != nil {
		return err
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	frames := len(f.Subframes[0].Samples)
	buf := s.pending[:0]
	if cap(buf) < frames*s.channels {
		buf = make([]float32, 0, frames*s.channels)
	}

	for i := range frames {
		for _, sub := range f.Subframes {
			buf = append(buf, float32(sub.Samples[i])/s.scale)
		}
	}
	s.pending = buf

	return nil
}

type Decoder struct{}

// Decode parses the FLAC stream header. Audio frames are decoded on demand.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecode, err)
	}

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NChannels == 0 {
		stream.Close()
		return nil, fmt.Errorf("%w: %w", audio.ErrDecode, ErrInvalidStreamInfo)
	}

	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		stream.Close()
		return nil, fmt.Errorf("%w: %w (%d bits)", audio.ErrDecode, ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return &source{
		stream:     stream,
		closer:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		scale:      float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}
