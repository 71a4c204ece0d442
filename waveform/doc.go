// SPDX-License-Identifier: EPL-2.0

// Package waveform reduces decoded audio to per-pixel min/max envelopes and
// encodes them as audiowaveform peaks data.
//
// # Reduction
//
// Reduce folds every SamplesPerPixel consecutive frames into one (min, max)
// pair:
//
//	env, err := waveform.Reduce(decoded, waveform.Params{
//	    SamplesPerPixel: 512,
//	    SplitChannels:   false,
//	    Bits:            8,
//	})
//
// The number of pairs per channel is
//
//	Length = Frames / SamplesPerPixel / Channels
//
// rounded down, where Channels is the source channel count with
// SplitChannels and 1 otherwise. Without SplitChannels only the first channel
// is read. Pairs are ordered by channel, then by pixel.
//
// # Binary Format
//
// MarshalBinary writes the .dat version 2 layout, all fields little-endian:
//
//	offset  size  field
//	0       4     version (int32, always 2)
//	4       4     flags (uint32, 1 = 8-bit samples)
//	8       4     sample rate (int32)
//	12      4     samples per pixel (int32)
//	16      4     length (uint32)
//	20      4     channels (int32)
//	24      ...   min, max, min, max, ... as int8 or int16
//
// Values in [-1, 1] are scaled onto the full signed range:
//
//	8-bit:  round((v+1)*127.5)   - 128, clamped to [-128, 127]
//	16-bit: round((v+1)*32767.5) - 32768, clamped to [-32768, 32767]
//
// ReadDat and ParseHeader read version 1 (20-byte header, mono) and
// version 2 files back.
//
// # JSON Format
//
// JSON (and MarshalJSON) returns the same header fields with bits in place
// of flags, and data holding each min/max multiplied by 128 without rounding.
//
// # Errors
//
// Both encoders fail with ErrInvariant when len(Data) differs from
// Channels*Length*2. Invalid parameters fail with ErrInvalidParams before
// any work is done.
package waveform
