package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/blurhash-cli/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/preview"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key    string
	asset  manifest.Asset
	err    error
	reused bool
}

// cacheKey identifies the settings a placeholder was produced with.
func cacheKey(sourceHash string, prof profile.Profile, width, height int) string {
	cx, cy := prof.Components(width, height)
	return hasher.KeyHash(sourceHash, cx, cy, prof.WorkSize, int(math.Round(prof.Punch*1000)))
}

// reusable reports whether prev can stand in for a fresh encode of a
// source with the given content hash.
func reusable(prev *manifest.Asset, sourceHash string, cfg Config) bool {
	if prev == nil || prev.SourceHash != sourceHash {
		return false
	}
	if prev.CacheKey != cacheKey(sourceHash, cfg.Profile, prev.Original.Width, prev.Original.Height) {
		return false
	}
	if !cfg.Previews {
		return true
	}
	if prev.Preview == nil {
		return false
	}
	info, err := os.Stat(filepath.Join(cfg.OutputDir, prev.Preview.Path))
	return err == nil && info.Size() == prev.Preview.Size
}

// processImage handles a single source image: hash, decode, blurhash, preview.
func processImage(src Source, prev *manifest.Asset, cfg Config, codec *blurhash.Codec, registry *preview.Registry) processResult {
	result := processResult{key: src.Key}

	sourceHash, err := hasher.ContentHashFile(src.AbsPath, hasher.Len)
	if err != nil {
		result.err = fmt.Errorf("hash %s: %w", src.RelPath, err)
		return result
	}

	if reusable(prev, sourceHash, cfg) {
		result.asset = *prev
		result.asset.Original.Size = src.Size
		if !cfg.Previews {
			result.asset.Preview = nil
		}
		result.reused = true
		return result
	}

	img, err := imaging.Open(src.AbsPath, imaging.AutoOrientation(true))
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()
	prof := cfg.Profile
	cx, cy := prof.Components(origW, origH)

	work := img
	if ws := prof.WorkSize; ws > 0 && (origW > ws || origH > ws) {
		work = imaging.Fit(img, ws, ws, imaging.Box)
	}

	hash, err := codec.EncodeImage(work, cx, cy)
	if err != nil {
		result.err = fmt.Errorf("blurhash %s: %w", src.RelPath, err)
		return result
	}
	avg, err := blurhash.AverageColor(hash)
	if err != nil {
		result.err = fmt.Errorf("blurhash %s: %w", src.RelPath, err)
		return result
	}

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:    origW,
			Height:   origH,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: hasAlpha(img),
		},
		SourceHash:  sourceHash,
		CacheKey:    cacheKey(sourceHash, prof, origW, origH),
		BlurHash:    hash,
		ComponentsX: cx,
		ComponentsY: cy,
		Punch:       prof.Punch,
		AspectRatio: float64(origW) / float64(origH),
		AvgColor:    &[3]uint8{avg.R, avg.G, avg.B},
	}

	if cfg.Previews {
		p, err := writePreview(src, hash, origW, origH, cfg, codec, registry)
		if err != nil {
			result.err = err
			return result
		}
		result.asset.Preview = p
	}
	return result
}

// writePreview renders hash at the profile's preview size and stores it
// under a content-addressed name: key.w.h.hash.blur.ext
func writePreview(src Source, hash string, origW, origH int, cfg Config, codec *blurhash.Codec, registry *preview.Registry) (*manifest.Preview, error) {
	prof := cfg.Profile
	enc, err := registry.Resolve(prof.PreviewFormat)
	if err != nil {
		return nil, err
	}

	w, h := prof.PreviewSize(origW, origH)
	img, err := codec.DecodeImage(hash, w, h, prof.Punch)
	if err != nil {
		return nil, fmt.Errorf("render preview %s: %w", src.RelPath, err)
	}
	data, err := enc.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("encode preview %s as %s: %w", src.RelPath, enc.Format(), err)
	}

	contentHash := hasher.ContentHash(data, hasher.Len)
	keyDir := filepath.Dir(src.Key)
	fileName := fmt.Sprintf("%s.%d.%d.%s.blur.%s",
		filepath.Base(src.Key), w, h, contentHash[:8], enc.Extension())
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

	outPath := filepath.Join(cfg.OutputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dir for %s: %w", relPath, err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", relPath, err)
	}

	return &manifest.Preview{
		Format: enc.Format(),
		Width:  w,
		Height: h,
		Size:   int64(len(data)),
		Hash:   contentHash,
		Path:   relPath,
	}, nil
}

// hasAlpha reports whether img may contain non-opaque pixels.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
