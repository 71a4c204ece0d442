// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

const defaultReadSize = 4096

// Decoded holds a fully decoded stream with one sample buffer per channel.
//
// Data[c] contains Frames samples in [-1, 1] for channel c. A Decoded value
// is treated as read-only once returned by ReadAll.
type Decoded struct {
	SampleRate int
	Channels   int
	Frames     int
	Data       [][]float32
}

// Channel returns the samples of channel c.
func (d *Decoded) Channel(c int) []float32 {
	return d.Data[c]
}

// Duration returns the length of the stream in seconds.
func (d *Decoded) Duration() float64 {
	if d.SampleRate <= 0 {
		return 0
	}

	return float64(d.Frames) / float64(d.SampleRate)
}

// Validate checks that the declared format matches the channel buffers.
func (d *Decoded) Validate() error {
	if d.SampleRate <= 0 || d.Channels <= 0 {
		return fmt.Errorf("%w: sample rate %d, channels %d", ErrInvalidFormat, d.SampleRate, d.Channels)
	}

	if len(d.Data) != d.Channels {
		return fmt.Errorf("%w: %d channel buffers for %d channels", ErrShape, len(d.Data), d.Channels)
	}

	for c, ch := range d.Data {
		if len(ch) != d.Frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrShape, c, len(ch), d.Frames)
		}
	}

	return nil
}

// ReadAll drains src and de-interleaves it into a Decoded value.
//
// A trailing partial frame is dropped. NaN samples are rejected with
// ErrInvalidSample. ReadAll does not close src.
func ReadAll(src Source) (*Decoded, error) {
	channels := src.Channels()
	rate := src.SampleRate()
	if channels <= 0 || rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d, channels %d", ErrInvalidFormat, rate, channels)
	}

	size := src.BufSize()
	if size < defaultReadSize {
		size = defaultReadSize
	}
	// keep reads frame aligned
	size -= size % channels
	buf := make([]float32, size)

	data := make([][]float32, channels)
	pos := 0

	for {
		n, err := src.ReadSamples(buf)
		for i := range n {
			v := buf[i]
			if math.IsNaN(float64(v)) {
				return nil, fmt.Errorf("%w: NaN at frame %d", ErrInvalidSample, pos/channels)
			}

			ch := pos % channels
			data[ch] = append(data[ch], v)
			pos++
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}

		if n == 0 {
			// Sources that signal the end with (0, nil) instead of io.EOF.
			break
		}
	}

	frames := pos / channels
	for c := range data {
		data[c] = data[c][:frames:frames]
	}

	return &Decoded{
		SampleRate: rate,
		Channels:   channels,
		Frames:     frames,
		Data:       data,
	}, nil
}

// DecodeAll decodes r with dec and collects the whole stream. Decoder
// failures are wrapped with ErrDecode.
func DecodeAll(dec Decoder, r io.Reader) (*Decoded, error) {
	src, err := dec.Decode(r)
	if err != nil {
		if errors.Is(err, ErrDecode) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer src.Close()

	d, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return d, nil
}
