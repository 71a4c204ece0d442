// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources and decoded buffers for tests.
package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audpeaks/audio"
)

// Waveform returns the sample value for a frame index and channel.
type Waveform func(frame int, channel int) float32

// MockSource generates interleaved audio from a Waveform. It implements audio.Source.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // total frames to generate
	generated  int // frames generated so far
	waveform   Waveform
}

var _ audio.Source = (*MockSource)(nil)

// NewMockSource creates a source producing frames frames of waveform.
func NewMockSource(sampleRate, channels, frames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource creates a mock source that generates a full-scale sine wave.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Sine(sampleRate, frequency))
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

// Sine is a full-scale sine Waveform, identical on every channel.
func Sine(sampleRate int, frequency float64) Waveform {
	return func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error { return nil }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	count := min(len(dst)/m.channels, m.frames-m.generated)
	for f := range count {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}

	m.generated += count
	if m.generated >= m.frames {
		return count * m.channels, io.EOF
	}

	return count * m.channels, nil
}

// Decoded builds an audio.Decoded directly from per-channel buffers. All
// buffers must have the same length.
func Decoded(sampleRate int, channels ...[]float32) *audio.Decoded {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}

	return &audio.Decoded{
		SampleRate: sampleRate,
		Channels:   len(channels),
		Frames:     frames,
		Data:       channels,
	}
}

// Generate renders frames frames of waveform for each channel.
func Generate(sampleRate, channels, frames int, waveform Waveform) *audio.Decoded {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range frames {
			data[c][i] = waveform(i, c)
		}
	}

	return Decoded(sampleRate, data...)
}
