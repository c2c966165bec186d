package blurhash

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/AnyUserName/blurhash-cli/blurhash/base83"
)

// Decode renders hash as a packed RGB buffer of width*height pixels.
//
// punch scales every AC coefficient and so the contrast of the result; 1 is
// neutral.  It is not range-checked.
func (c *Codec) Decode(hash string, width, height int, punch float64) ([]byte, error) {
	size, err := checkDimensions(width, height)
	if err != nil {
		return nil, err
	}
	colours, cx, cy, err := parseHash(hash, punch)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	c.inverse(colours, cx, cy, width, height, out)
	return out, nil
}

// parseHash validates hash and dequantises its cx*cy linear RGB coefficients.
func parseHash(hash string, punch float64) (colours [][3]float64, cx, cy int, err error) {
	cx, cy, err = Components(hash)
	if err != nil {
		return nil, 0, 0, err
	}
	if want := HashLength(cx, cy); len(hash) != want {
		return nil, 0, 0, &LengthError{Expected: want, Actual: len(hash)}
	}

	quantMax, err := decodeField(hash, 1, 2)
	if err != nil {
		return nil, 0, 0, err
	}
	realMax := float64(quantMax+1) / 166 * punch

	dc, err := decodeField(hash, 2, 6)
	if err != nil {
		return nil, 0, 0, err
	}
	colours = make([][3]float64, cx*cy)
	colours[0] = [3]float64{
		SRGBToLinear(uint8(dc >> 16)),
		SRGBToLinear(uint8(dc >> 8)),
		SRGBToLinear(uint8(dc)),
	}

	for k := 1; k < len(colours); k++ {
		v, err := decodeField(hash, 4+2*k, 6+2*k)
		if err != nil {
			return nil, 0, 0, err
		}
		colours[k] = [3]float64{
			dequantizeAC(v/(19*19), realMax),
			dequantizeAC(v/19%19, realMax),
			dequantizeAC(v%19, realMax),
		}
	}
	return colours, cx, cy, nil
}

func dequantizeAC(q uint64, realMax float64) float64 {
	return SignPow((float64(q)-9)/9, 2) * realMax
}

// decodeField parses hash[start:end], reporting bad characters at their
// offset within the whole hash.
func decodeField(hash string, start, end int) (uint64, error) {
	v, err := base83.Decode(hash[start:end])
	if err != nil {
		var ce *base83.CharacterError
		if errors.As(err, &ce) {
			return 0, &base83.CharacterError{Char: ce.Char, Pos: ce.Pos + start}
		}
		return 0, err
	}
	return v, nil
}

// inverse reconstructs the image with a separable inverse DCT and writes
// sRGB bytes into out.
func (c *Codec) inverse(colours [][3]float64, cx, cy, w, h int, out []byte) {
	cosX := cosineTable(cx, w)
	cosY := cosineTable(cy, h)

	// Pass 1: partial[ch][j*w+x] = Σi colour(i, j)·cos(π·x·i/w).
	var partial [3][]float64
	for ch := range partial {
		p := make([]float64, cy*w)
		for j := 0; j < cy; j++ {
			dst := p[j*w : (j+1)*w]
			for i := 0; i < cx; i++ {
				floats.AddScaled(dst, colours[j*cx+i][ch], cosX[i*w:(i+1)*w])
			}
		}
		partial[ch] = p
	}

	// Pass 2: one output row at a time, pixel = Σj partial(j, x)·cos(π·y·j/h).
	c.rows(w, h, func(y0, y1 int) {
		var acc [3][]float64
		for ch := range acc {
			acc[ch] = make([]float64, w)
		}
		r, g, b := acc[0], acc[1], acc[2]
		for y := y0; y < y1; y++ {
			for ch, a := range acc {
				clear(a)
				for j := 0; j < cy; j++ {
					floats.AddScaled(a, cosY[j*h+y], partial[ch][j*w:(j+1)*w])
				}
			}
			dst := out[y*w*3 : (y+1)*w*3]
			for x := range r {
				dst[x*3] = LinearToSRGB(r[x])
				dst[x*3+1] = LinearToSRGB(g[x])
				dst[x*3+2] = LinearToSRGB(b[x])
			}
		}
	})
}
