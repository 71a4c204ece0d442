// SPDX-License-Identifier: EPL-2.0

package waveform

import "errors"

var (
	// ErrInvalidParams is returned for encoding parameters outside their domain.
	ErrInvalidParams = errors.New("invalid waveform parameters")

	// ErrInvariant reports an internal size mismatch between an envelope's
	// header fields and its data. It indicates a bug, never bad user input.
	ErrInvariant = errors.New("waveform invariant violated")

	// ErrTruncated is returned when a .dat stream ends before its header or
	// data section is complete.
	ErrTruncated = errors.New("truncated waveform data")

	// ErrUnsupportedVersion is returned for .dat versions other than 1 and 2.
	ErrUnsupportedVersion = errors.New("unsupported waveform data version")
)

// ErrInvalidHeader is returned for a .dat header with impossible field values.
var ErrInvalidHeader = errors.New("invalid waveform header")
