// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files with github.com/mewkiz/flac.
//
// Frames are parsed lazily as samples are requested, so memory use is bound
// by one FLAC frame plus the caller's buffer. Integer samples are scaled by
// 2^(bits-1) into [-1.0, 1.0].
package flac
