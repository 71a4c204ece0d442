// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrDecode marks input that is not valid or supported audio. Decoders
	// wrap their failures with it so callers can match with errors.Is.
	ErrDecode = errors.New("audio decode failed")

	// ErrInvalidSample is returned when a decoded stream carries a NaN sample.
	ErrInvalidSample = errors.New("invalid sample value")

	// ErrInvalidFormat is returned for a stream with a non-positive sample
	// rate or channel count.
	ErrInvalidFormat = errors.New("invalid audio format")

	// ErrShape is returned by Decoded.Validate when the channel buffers do
	// not match the declared channel and frame counts.
	ErrShape = errors.New("decoded audio shape mismatch")
)
