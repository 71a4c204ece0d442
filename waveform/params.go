// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"math"
)

const (
	DefaultSamplesPerPixel = 512
	DefaultBits            = 8
)

// Params controls how decoded audio is reduced and stored.
type Params struct {
	// SamplesPerPixel is the number of consecutive frames folded into one
	// (min, max) pair.
	SamplesPerPixel int
	// SplitChannels emits one envelope per channel. When false only the
	// first channel is reduced.
	SplitChannels bool
	// Bits is the stored sample width, 8 or 16.
	Bits int
}

func DefaultParams() Params {
	return Params{
		SamplesPerPixel: DefaultSamplesPerPixel,
		SplitChannels:   false,
		Bits:            DefaultBits,
	}
}

func (p Params) Validate() error {
	if p.SamplesPerPixel < 1 || p.SamplesPerPixel > math.MaxInt32 {
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidParams, p.SamplesPerPixel)
	}

	if p.Bits != 8 && p.Bits != 16 {
		return fmt.Errorf("%w: bits %d (want 8 or 16)", ErrInvalidParams, p.Bits)
	}

	return nil
}

func (p Params) flags() uint32 {
	if p.Bits == 8 {
		return FlagEightBit
	}

	return 0
}
