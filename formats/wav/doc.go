// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and a minimal 16-bit PCM writer.
//
// Decoding is done with github.com/go-audio/wav. Integer PCM at 8, 16, 24
// and 32 bits is accepted, in plain or WAVE_FORMAT_EXTENSIBLE files, with any
// channel count and sample rate:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, audio.ErrDecode) {
//	    // not a usable WAV file
//	}
//
// Samples are returned as interleaved float32 in [-1.0, 1.0]. IEEE float
// WAV files are rejected with ErrOnlyPCMSupported.
//
// # Writing
//
// WriteWAV16 and WriteInterleaved16 emit a canonical 44-byte header followed
// by little-endian int16 frames:
//
//	wav.WriteInterleaved16(file, 44100, 2, []int16{100, -100, 200, -200})
package wav
