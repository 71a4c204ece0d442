// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Signed big-endian PCM at 8, 16, 24 and 32 bits is supported, with any
// channel count and sample rate. Compressed AIFF-C is rejected.
//
// go-audio needs an io.ReadSeeker; other readers are buffered in memory
// before decoding. Every failure from Decode matches audio.ErrDecode:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // 12-bit or other unusual sample size
//	}
package aiff
