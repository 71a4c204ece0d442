// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding boundary used by the peaks generator.
//
// This package contains:
//   - Source interface for streaming decoded audio
//   - Decoder interface and a format Registry
//   - Decoded, a fully collected stream with one buffer per channel
//
// # Source Interface
//
// The Source interface is what every format decoder returns:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1.0, 1.0].
//
// # Collecting a Stream
//
// ReadAll drains a Source and splits the interleaved samples into per-channel
// buffers:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	decoded, err := audio.ReadAll(src)
//	// decoded.Data[0] is the left channel, decoded.Frames its length
//
// DecodeAll combines Decode and ReadAll and wraps every failure with
// ErrDecode, which is how callers tell unsupported or corrupt input apart
// from I/O problems:
//
//	decoded, err := audio.DecodeAll(mp3.Decoder{}, file)
//	if errors.Is(err, audio.ErrDecode) {
//	    // not playable audio
//	}
//
// NaN samples are treated as a decoder fault and rejected with
// ErrInvalidSample.
//
// # Format Registry
//
// Register decoders for different formats. Keys are case-insensitive and a
// leading dot is ignored, so file extensions work as keys:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	registry.Register("mp3", mp3.Decoder{})
//
//	decoder, ok := registry.Get(filepath.Ext(name))
//
// The Registry is safe for concurrent use.
package audio
