// Package blurhash implements the BlurHash placeholder codec: a short base-83
// string holding the low-frequency DCT coefficients of an image.
//
// Design:
//   - Pixel buffers are packed 8-bit RGB, row-major, width*height*3 bytes
//   - Separable DCT in both directions: O(W·H·(Cx+Cy)) instead of O(W·H·Cx·Cy)
//   - sRGB tables built once at init, shared read-only by every goroutine
//   - Large images split rows across a worker pool; output is bit-identical
//     to the serial path
//   - Every call validates eagerly and either returns a complete result or an error
package blurhash

import "math"

const (
	MinComponents = 1
	MaxComponents = 9

	// MaxDimension bounds width and height on both encode and decode.
	MaxDimension = 10_000

	// MinHashLength is the length of a hash with a single (DC) component.
	MinHashLength = 6

	DefaultComponentsX = 4
	DefaultComponentsY = 4
	DefaultPunch       = 1.0
)

// HashLength returns the length of a hash with cx*cy components.
func HashLength(cx, cy int) int {
	return 4 + 2*cx*cy
}

// Components returns the component counts declared by the size flag of hash.
// Only the first character is parsed.
func Components(hash string) (x, y int, err error) {
	if len(hash) < MinHashLength {
		return 0, 0, &LengthError{Expected: MinHashLength, Actual: len(hash)}
	}
	flag, err := decodeField(hash, 0, 1)
	if err != nil {
		return 0, 0, err
	}
	x = int(flag%9) + 1
	y = int(flag/9) + 1
	if y > MaxComponents {
		return 0, 0, &ComponentError{Axis: "y", Value: y}
	}
	return x, y, nil
}

// checkDimensions validates an image size and returns its RGB buffer length.
func checkDimensions(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, &DimensionError{Width: width, Height: height, Reason: "width and height must be > 0"}
	}
	if width > MaxDimension || height > MaxDimension {
		return 0, &DimensionError{Width: width, Height: height, Reason: "dimensions must be <= 10000"}
	}
	n := uint64(width) * uint64(height) * 3
	if n > math.MaxInt {
		return 0, &DimensionError{Width: width, Height: height, Reason: "dimensions overflow buffer size"}
	}
	return int(n), nil
}

func checkComponents(cx, cy int) error {
	if cx < MinComponents || cx > MaxComponents {
		return &ComponentError{Axis: "x", Value: cx}
	}
	if cy < MinComponents || cy > MaxComponents {
		return &ComponentError{Axis: "y", Value: cy}
	}
	return nil
}

// cosineTable returns t[k*size+p] = cos(π·k·p/size) for k < n, p < size.
func cosineTable(n, size int) []float64 {
	t := make([]float64, n*size)
	fs := float64(size)
	for k := 0; k < n; k++ {
		row := t[k*size : (k+1)*size]
		for p := range row {
			row[p] = math.Cos(math.Pi * float64(k) * float64(p) / fs)
		}
	}
	return t
}
