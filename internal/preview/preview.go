package preview

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Encoder writes a rendered placeholder to an image format.
type Encoder interface {
	// Format returns the output format name ("png", "jpeg", "gif").
	Format() string

	// Encode converts the image to bytes.
	Encode(img image.Image) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}

// imagingEncoder encodes through imaging.Encode with fixed options.
type imagingEncoder struct {
	name   string
	ext    string
	format imaging.Format
	opts   []imaging.EncodeOption
	grow   int
}

func (e *imagingEncoder) Format() string    { return e.name }
func (e *imagingEncoder) Extension() string { return e.ext }

func (e *imagingEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(e.grow)
	if err := imaging.Encode(&buf, img, e.format, e.opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PNG is lossless and the smallest for the smooth gradients BlurHash
// produces at preview sizes.
func PNG() Encoder {
	return &imagingEncoder{
		name: "png", ext: "png", format: imaging.PNG,
		opts: []imaging.EncodeOption{imaging.PNGCompressionLevel(png.BestCompression)},
		grow: 4 << 10,
	}
}

// JPEG encodes at the given quality (1-100, 0 means 82).
func JPEG(quality int) Encoder {
	if quality <= 0 || quality > 100 {
		quality = 82
	}
	return &imagingEncoder{
		name: "jpeg", ext: "jpg", format: imaging.JPEG,
		opts: []imaging.EncodeOption{imaging.JPEGQuality(quality)},
		grow: 4 << 10,
	}
}

// GIF quantises to a 256-colour palette.
func GIF() Encoder {
	return &imagingEncoder{
		name: "gif", ext: "gif", format: imaging.GIF,
		opts: []imaging.EncodeOption{imaging.GIFNumColors(256)},
		grow: 2 << 10,
	}
}
