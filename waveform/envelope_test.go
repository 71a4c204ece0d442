// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/internal/audiotest"
)

// ramp returns n samples rising linearly from -1 towards 1.
func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = -1 + 2*float32(i)/float32(n)
	}
	return out
}

func TestReduce_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frames, spp, channels int
		split                 bool
		wantChannels          int
		wantLength            int
	}{
		{1024, 512, 1, false, 1, 2},
		{1023, 512, 1, false, 1, 1},
		{511, 512, 1, false, 1, 0},
		{0, 512, 1, false, 1, 0},
		{2048, 512, 2, true, 2, 2},
		{1024, 512, 2, true, 2, 1},
		{2048, 512, 2, false, 1, 4},
		{3000, 100, 3, true, 3, 10},
		{10, 1, 1, false, 1, 10},
		{44100, 256, 6, true, 6, 28},
	}

	for _, tt := range tests {
		d := audiotest.Generate(44100, tt.channels, tt.frames, audiotest.Sine(44100, 220))

		env, err := Reduce(d, Params{SamplesPerPixel: tt.spp, SplitChannels: tt.split, Bits: 8})
		if err != nil {
			t.Fatalf("Reduce(frames=%d spp=%d ch=%d) error = %v", tt.frames, tt.spp, tt.channels, err)
		}

		if env.Channels != tt.wantChannels || env.Length != tt.wantLength {
			t.Errorf("Reduce(frames=%d spp=%d ch=%d split=%v) = channels %d length %d; want %d, %d",
				tt.frames, tt.spp, tt.channels, tt.split, env.Channels, env.Length, tt.wantChannels, tt.wantLength)
		}

		if want := tt.frames / tt.spp / tt.wantChannels; env.Length != want {
			t.Errorf("Length = %d, want floor(%d/%d/%d) = %d", env.Length, tt.frames, tt.spp, tt.wantChannels, want)
		}

		if len(env.Data) != env.Channels*env.Length*2 {
			t.Errorf("len(Data) = %d, want %d", len(env.Data), env.Channels*env.Length*2)
		}
	}
}

func TestReduce_Header(t *testing.T) {
	t.Parallel()

	d := audiotest.Generate(48000, 2, 4096, audiotest.Sine(48000, 440))

	tests := []struct {
		bits      int
		wantFlags uint32
	}{
		{8, 1},
		{16, 0},
	}

	for _, tt := range tests {
		env, err := Reduce(d, Params{SamplesPerPixel: 256, SplitChannels: true, Bits: tt.bits})
		if err != nil {
			t.Fatalf("Reduce() error = %v", err)
		}

		if env.Version != 2 {
			t.Errorf("Version = %d, want 2", env.Version)
		}
		if env.Flags != tt.wantFlags {
			t.Errorf("bits %d: Flags = %d, want %d", tt.bits, env.Flags, tt.wantFlags)
		}
		if env.Bits() != tt.bits {
			t.Errorf("Bits() = %d, want %d", env.Bits(), tt.bits)
		}
		if env.SampleRate != 48000 || env.SamplesPerPixel != 256 {
			t.Errorf("SampleRate, SamplesPerPixel = %d, %d; want 48000, 256", env.SampleRate, env.SamplesPerPixel)
		}
	}
}

func TestReduce_MinMaxValues(t *testing.T) {
	t.Parallel()

	// Pixel 0 spans [-1, 0), pixel 1 spans [0, 1).
	d := audiotest.Decoded(8000, ramp(8))

	env, err := Reduce(d, Params{SamplesPerPixel: 4, Bits: 16})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	want := []float64{-1, -0.25, 0, 0.75}
	if len(env.Data) != len(want) {
		t.Fatalf("len(Data) = %d, want %d", len(env.Data), len(want))
	}
	for i := range want {
		if env.Data[i] != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, env.Data[i], want[i])
		}
	}

	lo, hi := env.Pair(0, 1)
	if lo != 0 || hi != 0.75 {
		t.Errorf("Pair(0, 1) = (%v, %v), want (0, 0.75)", lo, hi)
	}
}

func TestReduce_MinNotGreaterThanMax(t *testing.T) {
	t.Parallel()

	d := audiotest.Generate(44100, 2, 44100, func(frame, channel int) float32 {
		return float32(math.Sin(float64(frame)*0.01+float64(channel))) * 0.8
	})

	env, err := Reduce(d, Params{SamplesPerPixel: 300, SplitChannels: true, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	for c := range env.Channels {
		for i := range env.Length {
			lo, hi := env.Pair(c, i)
			if lo > hi {
				t.Fatalf("Pair(%d, %d) = (%v, %v): min > max", c, i, lo, hi)
			}
		}
	}
}

func TestReduce_MonoUsesFirstChannelOnly(t *testing.T) {
	t.Parallel()

	left := []float32{0.1, 0.2, 0.3, 0.4}
	right := []float32{-0.9, 0.9, -0.9, 0.9}
	d := audiotest.Decoded(8000, left, right)

	env, err := Reduce(d, Params{SamplesPerPixel: 2, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	if env.Channels != 1 || env.Length != 2 {
		t.Fatalf("channels, length = %d, %d; want 1, 2", env.Channels, env.Length)
	}

	want := []float64{float64(left[0]), float64(left[1]), float64(left[2]), float64(left[3])}
	for i := range want {
		if env.Data[i] != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, env.Data[i], want[i])
		}
	}
}

func TestReduce_ChannelOrdering(t *testing.T) {
	t.Parallel()

	// Each channel is constant so pairs identify their channel.
	d := audiotest.Generate(8000, 3, 12, func(_, channel int) float32 {
		return float32(channel) * 0.25
	})

	env, err := Reduce(d, Params{SamplesPerPixel: 2, SplitChannels: true, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	if env.Length != 2 {
		t.Fatalf("Length = %d, want 2", env.Length)
	}

	for i, v := range env.Data {
		want := float64(i/(env.Length*2)) * 0.25
		if v != want {
			t.Errorf("Data[%d] = %v, want %v (channel-major order)", i, v, want)
		}
	}
}

func TestReduce_DropsPartialWindow(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 1030)
	samples[1025] = 1 // in the trailing partial window

	env, err := Reduce(audiotest.Decoded(8000, samples), Params{SamplesPerPixel: 512, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	if env.Length != 2 {
		t.Fatalf("Length = %d, want 2", env.Length)
	}

	for i, v := range env.Data {
		if v != 0 {
			t.Errorf("Data[%d] = %v, want 0: trailing frames must not be read", i, v)
		}
	}
}

func TestReduce_SplitReadsLeadingFramesOnly(t *testing.T) {
	t.Parallel()

	// 2 channels, 8 frames, spp 2 -> length 2, covering frames [0, 4).
	left := []float32{0, 0, 0, 0, 1, 1, 1, 1}
	right := []float32{0, 0, 0, 0, -1, -1, -1, -1}

	env, err := Reduce(audiotest.Decoded(8000, left, right), Params{SamplesPerPixel: 2, SplitChannels: true, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	if env.Length != 2 {
		t.Fatalf("Length = %d, want 2", env.Length)
	}
	for i, v := range env.Data {
		if v != 0 {
			t.Errorf("Data[%d] = %v, want 0", i, v)
		}
	}
}

func TestReduce_SkipsNaN(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	d := audiotest.Decoded(8000, []float32{nan, 0.5, -0.5, nan})

	env, err := Reduce(d, Params{SamplesPerPixel: 4, Bits: 8})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	if lo, hi := env.Pair(0, 0); lo != -0.5 || hi != 0.5 {
		t.Errorf("Pair(0, 0) = (%v, %v), want (-0.5, 0.5)", lo, hi)
	}
}

func TestReduce_InvalidParams(t *testing.T) {
	t.Parallel()

	d := audiotest.Decoded(8000, make([]float32, 1024))

	tests := []struct {
		name string
		p    Params
	}{
		{"zero spp", Params{SamplesPerPixel: 0, Bits: 8}},
		{"negative spp", Params{SamplesPerPixel: -5, Bits: 8}},
		{"bits 24", Params{SamplesPerPixel: 512, Bits: 24}},
		{"bits 0", Params{SamplesPerPixel: 512}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Reduce(d, tt.p)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Reduce() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestReduce_InvalidDecoded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    *audio.Decoded
	}{
		{"nil", nil},
		{"short channel", &audio.Decoded{SampleRate: 8000, Channels: 1, Frames: 10, Data: [][]float32{make([]float32, 5)}}},
		{"missing channel", &audio.Decoded{SampleRate: 8000, Channels: 2, Frames: 1, Data: [][]float32{{0}}}},
		{"no sample rate", &audio.Decoded{Channels: 1, Frames: 1, Data: [][]float32{{0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Reduce(tt.d, DefaultParams())
			if !errors.Is(err, ErrInvariant) {
				t.Errorf("Reduce() error = %v, want ErrInvariant", err)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	if p.SamplesPerPixel != 512 || p.Bits != 8 || p.SplitChannels {
		t.Errorf("DefaultParams() = %+v, want {512 false 8}", p)
	}

	if err := p.Validate(); err != nil {
		t.Errorf("DefaultParams().Validate() error = %v", err)
	}
}

func BenchmarkReduce_StereoMinute(b *testing.B) {
	d := audiotest.Generate(44100, 2, 44100*60, audiotest.Sine(44100, 440))
	p := Params{SamplesPerPixel: 512, SplitChannels: true, Bits: 8}

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Reduce(d, p)
	}
}

func TestReduce_FromStreamedSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    audio.Source
		wantLo float64
		wantHi float64
	}{
		{"silence", audiotest.NewSilentSource(8000, 2, 2048), 0, 0},
		{"constant", audiotest.NewConstantSource(8000, 2, 2048, 0.25), 0.25, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := audio.ReadAll(tt.src)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}

			env, err := Reduce(d, Params{SamplesPerPixel: 256, SplitChannels: true, Bits: 16})
			if err != nil {
				t.Fatalf("Reduce() error = %v", err)
			}

			if env.Channels != 2 || env.Length != 4 {
				t.Fatalf("Channels, Length = %d, %d; want 2, 4", env.Channels, env.Length)
			}

			for c := range env.Channels {
				for i := range env.Length {
					if lo, hi := env.Pair(c, i); lo != tt.wantLo || hi != tt.wantHi {
						t.Errorf("Pair(%d, %d) = (%v, %v), want (%v, %v)", c, i, lo, hi, tt.wantLo, tt.wantHi)
					}
				}
			}
		})
	}
}
