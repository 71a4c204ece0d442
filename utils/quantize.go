// SPDX-License-Identifier: EPL-2.0

// Package utils holds the sample quantizers used by the .dat writer.
package utils

import "math"

// ScaleToInt8 maps v in [-1, 1] affinely onto the full int8 range:
// round((v+1)*127.5) - 128, clamped to [-128, 127].
func ScaleToInt8(v float64) int8 {
	return int8(scale(v, 127.5, math.MinInt8, math.MaxInt8))
}

// ScaleToInt16 maps v in [-1, 1] affinely onto the full int16 range:
// round((v+1)*32767.5) - 32768, clamped to [-32768, 32767].
//
// The -32768 offset is deliberate. Writers that use round((v+1)*32767.5)
// alone produce unsigned values that overflow int16 above zero; with the
// offset 1.0 maps to 32767, -1.0 to -32768 and 0 to 0, matching the 8-bit
// path and the audiowaveform tool.
func ScaleToInt16(v float64) int16 {
	return int16(scale(v, 32767.5, math.MinInt16, math.MaxInt16))
}

// scale works in float64 so out-of-range input cannot overflow before the
// clamp. NaN maps to the midpoint.
func scale(v, half, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	x := math.Round((v+1)*half) + lo
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}

	return x
}
