// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder keeps the stream's native channel count and sample rate and
// yields float32 samples in [-1.0, 1.0]:
//
//	src, err := vorbis.Decoder{}.Decode(file)
package vorbis
