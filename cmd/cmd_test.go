package cmd

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/blurhash-cli/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

const knownHash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"

// execute runs the root command with args and returns its stdout.
// Flag variables are package globals, so every call starts from defaults.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	encodeX, encodeY, encodeWorkSize = blurhash.DefaultComponentsX, 3, 0
	decodeWidth, decodeHeight, decodePunch, decodeOut = 32, 32, blurhash.DefaultPunch, ""
	buildOutDir, buildProfile, buildWorkers = "./blurhash_out", "default", 0
	buildX, buildY, buildWorkSize = 0, 0, -1
	buildPreviews, buildCompress, buildIncremental = false, false, false
	verbose = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeGradient(t *testing.T, path string, w, h int) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, imaging.Save(img, path))
	return img
}

func TestEncodeCommand(t *testing.T) {
	dir := t.TempDir()
	img := writeGradient(t, filepath.Join(dir, "a.png"), 24, 16)

	out, err := execute(t, "encode", filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	want, err := blurhash.EncodeImage(img, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	out, err = execute(t, "encode", "-x", "2", "-y", "5", filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	cx, cy, err := blurhash.Components(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 5}, [2]int{cx, cy})
}

func TestEncodeCommand_Many(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeGradient(t, a, 24, 16)
	writeGradient(t, b, 16, 24)

	out, err := execute(t, "encode", a, b)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\t"+a))
	assert.True(t, strings.HasSuffix(lines[1], "\t"+b))

	out, err = execute(t, "encode", a, filepath.Join(dir, "missing.png"))
	assert.ErrorContains(t, err, "1 of 2 images failed")
	assert.Contains(t, out, "\t"+a)
}

func TestDecodeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	_, err := execute(t, "decode", knownHash, "-W", "20", "-H", "10", "-o", path)
	require.NoError(t, err)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	want, err := blurhash.Decode(knownHash, 20, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, want, blurhash.RGB(img))

	_, err = execute(t, "decode", "short", "-o", path)
	assert.ErrorIs(t, err, blurhash.ErrInvalidLength)
}

func TestComponentsCommand(t *testing.T) {
	out, err := execute(t, "components", "00Eyb[")
	require.NoError(t, err)
	assert.Contains(t, out, "components: 1 x 1")
	assert.Contains(t, out, "average:    #808080")

	_, err = execute(t, "components", "!!!!!!")
	assert.ErrorIs(t, err, blurhash.ErrInvalidCharacter)
}

func TestBuildValidateStats(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeGradient(t, filepath.Join(in, "banner.png"), 60, 40)
	writeGradient(t, filepath.Join(in, "cards", "card.png"), 30, 50)

	report, err := execute(t, "build", in, "-o", out, "--previews", "--compress")
	require.NoError(t, err)
	assert.Contains(t, report, "Assets:      2")
	assert.Contains(t, report, manifest.CompressedFileName)

	mPath, err := manifest.Locate(out)
	require.NoError(t, err)
	assert.Equal(t, manifest.CompressedFileName, filepath.Base(mPath))

	res, err := execute(t, "validate", out)
	require.NoError(t, err)
	assert.Contains(t, res, "Manifest is valid")

	stats, err := execute(t, "stats", mPath)
	require.NoError(t, err)
	assert.Contains(t, stats, "Total assets:     2")
	assert.Contains(t, stats, "png")

	// A plain rebuild replaces the compressed manifest and reuses every entry.
	report, err = execute(t, "build", in, "-o", out, "--previews", "--incremental")
	require.NoError(t, err)
	assert.Contains(t, report, "Reused:      2")
	_, err = os.Stat(filepath.Join(out, manifest.CompressedFileName))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, manifest.FileName))
	assert.NoError(t, err)
}

func TestValidateManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.png"), []byte("12345"), 0o644))

	valid := func() *manifest.Manifest {
		m := manifest.New("default")
		m.Assets["a"] = manifest.Asset{
			Original:    manifest.OriginalInfo{Width: 40, Height: 30, Format: "png", Size: 10},
			SourceHash:  "0123456789abcdef",
			BlurHash:    knownHash,
			ComponentsX: 4,
			ComponentsY: 3,
			AspectRatio: 4.0 / 3,
			Preview:     &manifest.Preview{Format: "png", Width: 32, Height: 24, Size: 5, Hash: "ab", Path: "p.png"},
		}
		m.ComputeStats()
		return m
	}
	assert.Empty(t, validateManifest(valid(), dir))

	test := []struct {
		name   string
		mutate func(m *manifest.Manifest)
		want   string
	}{
		{"version", func(m *manifest.Manifest) { m.Version = 7 }, "unsupported manifest version"},
		{"bad hash char", func(m *manifest.Manifest) {
			a := m.Assets["a"]
			a.BlurHash = knownHash[:10] + " " + knownHash[11:]
			m.Assets["a"] = a
		}, "does not decode"},
		{"truncated hash", func(m *manifest.Manifest) {
			a := m.Assets["a"]
			a.BlurHash = knownHash[:20]
			m.Assets["a"] = a
		}, "need 28"},
		{"components disagree", func(m *manifest.Manifest) {
			a := m.Assets["a"]
			a.ComponentsX = 3
			m.Assets["a"] = a
		}, "manifest says 3x3"},
		{"missing hash", func(m *manifest.Manifest) {
			a := m.Assets["a"]
			a.BlurHash = ""
			m.Assets["a"] = a
		}, "missing blurhash"},
		{"missing preview", func(m *manifest.Manifest) {
			a := m.Assets["a"]
			p := *a.Preview
			p.Path = "gone.png"
			a.Preview = &p
			m.Assets["a"] = a
		}, "file not found"},
		{"preview size", func(m *manifest.Manifest) {
			a := m.Assets["a"]
			p := *a.Preview
			p.Size = 99
			a.Preview = &p
			m.Assets["a"] = a
		}, "size mismatch"},
		{"stats", func(m *manifest.Manifest) { m.Stats.TotalAssets = 5 }, "stats.total_assets mismatch"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)
			errs := validateManifest(m, dir)
			require.NotEmpty(t, errs)
			assert.Contains(t, strings.Join(errs, "\n"), tt.want)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
	assert.Equal(t, "...cdef", truncKey("abcdef0123456789abcdef", 7))
}
