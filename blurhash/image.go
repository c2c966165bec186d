package blurhash

import (
	"image"
	"image/color"
)

// EncodeImage computes the BlurHash of img.  Alpha is ignored.
func EncodeImage(img image.Image, componentsX, componentsY int) (string, error) {
	return std.EncodeImage(img, componentsX, componentsY)
}

// DecodeImage renders hash as an opaque image.
func DecodeImage(hash string, width, height int, punch float64) (*image.NRGBA, error) {
	return std.DecodeImage(hash, width, height, punch)
}

func (c *Codec) EncodeImage(img image.Image, componentsX, componentsY int) (string, error) {
	b := img.Bounds()
	if _, err := checkDimensions(b.Dx(), b.Dy()); err != nil {
		return "", err
	}
	return c.Encode(RGB(img), b.Dx(), b.Dy(), componentsX, componentsY)
}

func (c *Codec) DecodeImage(hash string, width, height int, punch float64) (*image.NRGBA, error) {
	px, err := c.Decode(hash, width, height, punch)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < len(px); i, j = i+3, j+4 {
		img.Pix[j] = px[i]
		img.Pix[j+1] = px[i+1]
		img.Pix[j+2] = px[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

// AverageColor returns the DC colour of hash without reconstructing pixels.
func AverageColor(hash string) (color.NRGBA, error) {
	cx, cy, err := Components(hash)
	if err != nil {
		return color.NRGBA{}, err
	}
	if want := HashLength(cx, cy); len(hash) != want {
		return color.NRGBA{}, &LengthError{Expected: want, Actual: len(hash)}
	}
	dc, err := decodeField(hash, 2, 6)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: uint8(dc >> 16), G: uint8(dc >> 8), B: uint8(dc), A: 0xff}, nil
}

// RGB packs the pixels inside img.Bounds() as width*height*3 bytes.
// Premultiplied sources are un-premultiplied; alpha is otherwise dropped.
// The result is byte-for-byte what color.NRGBAModel gives for img.At.
func RGB(img image.Image) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]byte, w*h*3)

	switch src := img.(type) {
	case *image.NRGBA:
		di := 0
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for range w {
				out[di] = src.Pix[off]
				out[di+1] = src.Pix[off+1]
				out[di+2] = src.Pix[off+2]
				off += 4
				di += 3
			}
		}
	case *image.RGBA:
		di := 0
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for range w {
				a := uint32(src.Pix[off+3])
				switch a {
				case 0xff:
					out[di] = src.Pix[off]
					out[di+1] = src.Pix[off+1]
					out[di+2] = src.Pix[off+2]
				case 0:
				default:
					out[di] = unpremultiply(src.Pix[off], a)
					out[di+1] = unpremultiply(src.Pix[off+1], a)
					out[di+2] = unpremultiply(src.Pix[off+2], a)
				}
				off += 4
				di += 3
			}
		}
	case *image.YCbCr:
		di := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				ci := src.COffset(x, y)
				r, g, b, _ := color.YCbCr{Y: src.Y[src.YOffset(x, y)], Cb: src.Cb[ci], Cr: src.Cr[ci]}.RGBA()
				out[di] = uint8(r >> 8)
				out[di+1] = uint8(g >> 8)
				out[di+2] = uint8(b >> 8)
				di += 3
			}
		}
	case *image.Gray:
		di := 0
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for _, v := range src.Pix[off : off+w] {
				out[di] = v
				out[di+1] = v
				out[di+2] = v
				di += 3
			}
		}
	default:
		di := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out[di] = c.R
				out[di+1] = c.G
				out[di+2] = c.B
				di += 3
			}
		}
	}
	return out
}

// unpremultiply matches color.NRGBAModel for an 8-bit premultiplied channel.
func unpremultiply(v uint8, a uint32) uint8 {
	c := uint32(v) * 0x101
	a16 := a * 0x101
	return uint8((c * 0xffff / a16) >> 8)
}
