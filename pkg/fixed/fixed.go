// Package fixed converts floating-point vertex attributes into the
// fixed-point and normalized-integer encodings used by the vertex table.
//
// All conversions round half away from zero and then truncate to the
// destination width. Out-of-range values wrap instead of clamping.
package fixed

import "github.com/chewxy/math32"

// FracBits is the number of fractional bits in an s10.5 value.
const FracBits = 5

// One is 1.0 in s10.5.
const One = 1 << FracBits

// S10_5 converts f to signed 10.5 fixed-point.
func S10_5(f float32) int16 {
	return int16(int64(math32.Round(f * One)))
}

// TexCoord converts a normalized texture coordinate. The coordinate is
// scaled by 32, converted to s10.5 and shifted left by one bit.
func TexCoord(f float32) int16 {
	return S10_5(f*One) << 1
}

// UNorm8 converts f in [0,1] to an unsigned normalized byte.
func UNorm8(f float32) uint8 {
	return uint8(int64(math32.Round(f * 255)))
}

// SNorm8 converts f in [-1,1] to a signed normalized byte.
// Negative values scale by 128 and positive values by 127 so that both
// ends of the int8 range are reachable.
func SNorm8(f float32) int8 {
	if f < 0 {
		return int8(int64(math32.Round(f * 128)))
	}
	return int8(int64(math32.Round(f * 127)))
}

// ToFloat converts an s10.5 value back to float32.
func ToFloat(v int16) float32 {
	return float32(v) / One
}
