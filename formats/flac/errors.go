// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrInvalidStreamInfo   = errors.New("invalid FLAC stream info")
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")
	ErrChannelMismatch     = errors.New("FLAC frame channel count does not match stream info")
)
