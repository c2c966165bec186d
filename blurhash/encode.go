package blurhash

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/AnyUserName/blurhash-cli/blurhash/base83"
)

// Encode computes the BlurHash of a packed RGB buffer of width*height pixels
// with componentsX*componentsY DCT components (each count in 1..=9).
// The result is always HashLength(componentsX, componentsY) bytes long.
func (c *Codec) Encode(pixels []byte, width, height, componentsX, componentsY int) (string, error) {
	size, err := checkDimensions(width, height)
	if err != nil {
		return "", err
	}
	if err := checkComponents(componentsX, componentsY); err != nil {
		return "", err
	}
	if len(pixels) != size {
		return "", &BufferLengthError{Width: width, Height: height, Expected: size, Actual: len(pixels)}
	}

	coef := c.forward(pixels, width, height, componentsX, componentsY)
	return packHash(coef, componentsX, componentsY)
}

// forward runs the separable DCT and returns the cx*cy linear RGB
// coefficients in row-major (j, i) order; index 0 is DC.
func (c *Codec) forward(pixels []byte, w, h, cx, cy int) [][3]float64 {
	cosX := cosineTable(cx, w)
	cosY := cosineTable(cy, h)

	// Pass 1: partial[ch][i*h+y] = Σx linear_ch(x, y)·cos(π·i·x/w).
	var partial [3][]float64
	for ch := range partial {
		partial[ch] = make([]float64, cx*h)
	}
	c.rows(w, h, func(y0, y1 int) {
		var row [3][]float64
		for ch := range row {
			row[ch] = make([]float64, w)
		}
		r, g, b := row[0], row[1], row[2]
		for y := y0; y < y1; y++ {
			src := pixels[y*w*3 : (y+1)*w*3]
			for x := range r {
				r[x] = srgbToLinear[src[x*3]]
				g[x] = srgbToLinear[src[x*3+1]]
				b[x] = srgbToLinear[src[x*3+2]]
			}
			for i := 0; i < cx; i++ {
				basis := cosX[i*w : (i+1)*w]
				for ch := range row {
					partial[ch][i*h+y] = floats.Dot(row[ch], basis)
				}
			}
		}
	})

	// Pass 2: combine the row partials over y.
	coef := make([][3]float64, cx*cy)
	area := float64(w) * float64(h)
	for j := 0; j < cy; j++ {
		basis := cosY[j*h : (j+1)*h]
		for i := 0; i < cx; i++ {
			norm := 2.0
			if i == 0 && j == 0 {
				norm = 1
			}
			k := j*cx + i
			for ch := range partial {
				coef[k][ch] = norm * floats.Dot(partial[ch][i*h:(i+1)*h], basis) / area
			}
		}
	}
	return coef
}

// packHash quantises the coefficients and serialises them.
func packHash(coef [][3]float64, cx, cy int) (string, error) {
	var maxAC float64
	for _, ac := range coef[1:] {
		maxAC = max(maxAC, math.Abs(ac[0]), math.Abs(ac[1]), math.Abs(ac[2]))
	}
	quantMax := uint64(clampf(math.Floor(maxAC*166-0.5), 0, 82))
	acScale := float64(quantMax+1) / 166

	dc := coef[0]
	dcValue := uint64(LinearToSRGB(dc[0]))<<16 |
		uint64(LinearToSRGB(dc[1]))<<8 |
		uint64(LinearToSRGB(dc[2]))

	buf := make([]byte, 0, HashLength(cx, cy))
	fields := [...]struct {
		value  uint64
		digits int
	}{
		{uint64((cx - 1) + (cy-1)*9), 1},
		{quantMax, 1},
		{dcValue, 4},
	}
	var err error
	for _, f := range fields {
		if buf, err = base83.Append(buf, f.value, f.digits); err != nil {
			return "", err
		}
	}
	for _, ac := range coef[1:] {
		v := quantizeAC(ac[0], acScale)*19*19 + quantizeAC(ac[1], acScale)*19 + quantizeAC(ac[2], acScale)
		if buf, err = base83.Append(buf, v, 2); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

// quantizeAC maps one AC channel to 0..=18 with square-root compression.
func quantizeAC(v, scale float64) uint64 {
	return uint64(clampf(math.Floor(SignPow(v/scale, 0.5)*9+9.5), 0, 18))
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
