// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"math"

	"github.com/ik5/audpeaks/audio"
)

// Version is the .dat format version this package writes.
const Version = 2

// FlagEightBit marks 8-bit sample data in the header flags field.
const FlagEightBit uint32 = 1

// Envelope is the per-pixel min/max reduction of a stream.
//
// Data holds Channels*Length pairs laid out channel by channel; within a
// channel, pairs are in pixel order and each pair is (min, max). Values are
// unscaled floats. An Envelope is not modified after Reduce returns it.
type Envelope struct {
	Version         int
	Flags           uint32
	SampleRate      int
	SamplesPerPixel int
	Channels        int
	Length          int
	Data            []float64
}

// Bits returns the sample width selected by Flags.
func (e *Envelope) Bits() int {
	if e.Flags&FlagEightBit != 0 {
		return 8
	}

	return 16
}

// Pair returns the (min, max) pair of pixel i in channel c.
func (e *Envelope) Pair(c, i int) (lo, hi float64) {
	idx := (c*e.Length + i) * 2
	return e.Data[idx], e.Data[idx+1]
}

// check verifies the size invariant shared by both serializers.
func (e *Envelope) check() error {
	if e.Channels < 1 || e.Length < 0 {
		return fmt.Errorf("%w: channels %d, length %d", ErrInvariant, e.Channels, e.Length)
	}

	if want := e.Channels * e.Length * 2; len(e.Data) != want {
		return fmt.Errorf("%w: %d data values, want %d", ErrInvariant, len(e.Data), want)
	}

	return nil
}

// Reduce computes the min/max envelope of d.
//
// With SplitChannels the envelope has one stream per channel of d, otherwise
// a single stream built from channel 0. The pixel count is
// Frames / SamplesPerPixel / channels, rounded down; frames past the last
// full window are not read. Too little audio yields a zero-length envelope,
// not an error.
func Reduce(d *audio.Decoded, p Params) (*Envelope, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if d == nil {
		return nil, fmt.Errorf("%w: nil decoded audio", ErrInvariant)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	if d.SampleRate > math.MaxInt32 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidParams, d.SampleRate)
	}

	channels := 1
	if p.SplitChannels {
		channels = d.Channels
	}

	spp := p.SamplesPerPixel
	length := d.Frames / spp / channels

	data := make([]float64, 0, channels*length*2)
	for c := range channels {
		samples := d.Channel(c)
		for i := range length {
			lo, hi := minMax(samples[i*spp : (i+1)*spp])
			data = append(data, lo, hi)
		}
	}

	return &Envelope{
		Version:         Version,
		Flags:           p.flags(),
		SampleRate:      d.SampleRate,
		SamplesPerPixel: spp,
		Channels:        channels,
		Length:          length,
		Data:            data,
	}, nil
}

// minMax starts from min=1, max=-1 so any in-range sample replaces them.
// NaN never compares true and is skipped.
func minMax(window []float32) (float64, float64) {
	lo, hi := float32(1), float32(-1)
	for _, v := range window {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return float64(lo), float64(hi)
}
