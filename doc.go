// SPDX-License-Identifier: EPL-2.0

// Package audpeaks generates audiowaveform compatible peaks data from audio
// files.
//
// Input is decoded by one of the formats subpackages, reduced to per-pixel
// min/max pairs by the waveform package and then encoded as a .dat version 2
// file or as JSON.
//
// # Supported Formats
//
//   - WAV (integer PCM 8, 16, 24 and 32 bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 8, 16, 24 and 32 bit) via formats/aiff
//   - FLAC via formats/flac
//
// # Quick Start
//
//	f, _ := os.Open("speech.wav")
//	defer f.Close()
//
//	dat, err := audpeaks.GenerateDat(ctx, "speech.wav", f, waveform.DefaultParams())
//	if errors.Is(err, audio.ErrDecode) {
//	    // not an audio file we can read
//	}
//
// The format is picked from the file extension and, when the extension is
// missing or unknown, from the first bytes of the input (see DetectFormat).
//
// # Custom Registries
//
// A Generator can be built around any audio.Registry, for example to add a
// decoder or to restrict the accepted formats:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	gen := audpeaks.NewGenerator(reg)
//
// # Building Blocks
//
// For more control, the steps can be run separately:
//
//	src, _ := wav.Decoder{}.Decode(r)
//	decoded, _ := audio.ReadAll(src)
//	env, _ := waveform.Reduce(decoded, params)
//	env.WriteTo(w)
package audpeaks
