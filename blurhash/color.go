package blurhash

import "math"

// ─── sRGB ↔ linear lookup tables ─────────────────────────────
// Built once at init and read-only afterwards.
//
// srgbToLinear holds the decoded value for every byte.  linearThreshold[b]
// is the smallest linear value that LinearToSRGB rounds to b (b ≥ 1), so the
// reverse direction is an 8-step search instead of a math.Pow per pixel.
var (
	srgbToLinear    [256]float64
	linearThreshold [256]float64
)

func init() {
	for i := range 256 {
		srgbToLinear[i] = decodeTransfer(float64(i) / 255)
	}
	linearThreshold[0] = math.Inf(-1)
	for b := 1; b < 256; b++ {
		linearThreshold[b] = decodeTransfer((float64(b) - 0.5) / 255)
	}
}

// decodeTransfer maps a normalised sRGB value to linear light.
func decodeTransfer(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// encodeTransfer maps linear light in [0,1] to a normalised sRGB value.
func encodeTransfer(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// SRGBToLinear converts an sRGB byte to linear light in [0,1].
func SRGBToLinear(b uint8) float64 {
	return srgbToLinear[b]
}

// LinearToSRGB converts linear light to an sRGB byte, rounding to nearest.
// Values outside [0,1] are clamped; NaN maps to 0.
func LinearToSRGB(v float64) uint8 {
	b := 0
	for step := 128; step > 0; step >>= 1 {
		if v >= linearThreshold[b+step] {
			b += step
		}
	}
	return uint8(b)
}

// linearToSRGBExact is the closed form LinearToSRGB is tabulated from.
func linearToSRGBExact(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(encodeTransfer(v)*255 + 0.5)
}

// SignPow returns sign(v) * |v|^exp.
func SignPow(v, exp float64) float64 {
	a := math.Abs(v)
	switch exp {
	case 0.5:
		a = math.Sqrt(a)
	case 2:
		a *= a
	default:
		a = math.Pow(a, exp)
	}
	return math.Copysign(a, v)
}
