// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always emits interleaved stereo 16-bit PCM, so every source from
// this package reports two channels, mono files included:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, audio.ErrDecode) == true
//	}
//	decoded, err := audio.ReadAll(src)
package mp3
