// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// frameSource synthesises frames frames from fn, handing out whole frames
// only and reporting io.EOF together with the last ones.
type frameSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	fn       func(frame, channel int) float32
	closed   bool
}

func newFrameSource(rate, channels, frames int, fn func(frame, channel int) float32) *frameSource {
	return &frameSource{rate: rate, channels: channels, frames: frames, fn: fn}
}

func newSilentSource(rate, channels, frames int) *frameSource {
	return newFrameSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

func newSineSource(rate, channels, frames int, freq float64) *frameSource {
	return newFrameSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
	})
}

func (s *frameSource) SampleRate() int { return s.rate }
func (s *frameSource) Channels() int   { return s.channels }
func (s *frameSource) BufSize() int    { return 4096 }

func (s *frameSource) Close() error {
	s.closed = true
	return nil
}

func (s *frameSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.fn(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}

	return n * s.channels, nil
}
