//go:build ignore

// gen_fixtures creates small test images for the E2E smoke test and prints
// the BlurHash each one should get from `blurhash build -p default`.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/blurhash-cli/blurhash"
)

type fixture struct {
	path string
	img  *image.NRGBA
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]

	fixtures := []fixture{
		{"banner.png", gradient(400, 225)},
		{"photos/stripes.bmp", stripes(120, 160)},
		{"photos/rings.tiff", rings(128, 128)},
		{"logo.png", alphaGradient(100, 100)},
	}
	for i := 1; i <= 3; i++ {
		fixtures = append(fixtures, fixture{
			fmt.Sprintf("cards/card-%d.png", i),
			solidWithBorder(200, 150, uint8(i*60)),
		})
	}

	for _, f := range fixtures {
		path := filepath.Join(dir, f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			panic(err)
		}
		if err := imaging.Save(f.img, path); err != nil {
			panic(err)
		}

		// Lossless formats only, so the expected hash matches the build.
		b := f.img.Bounds()
		cx, cy := 4, 3
		if b.Dy() > b.Dx() {
			cx, cy = 3, 4
		}
		hash, err := blurhash.EncodeImage(f.img, cx, cy)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s\t%s\n", hash, f.path)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created %d fixtures in %s\n", len(fixtures), dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func stripes(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.NRGBA{R: 30, G: 90, B: 200, A: 255}
		if (y/20)%2 == 1 {
			c = color.NRGBA{R: 240, G: 200, B: 40, A: 255}
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func rings(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := w/2, h/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			v := uint8(d / 16 % 256)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: v / 2, A: 255})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}
