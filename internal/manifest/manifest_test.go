package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *Manifest {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, CodecWorkers: 2, WorkSize: 64}
	m.Assets["test/image"] = Asset{
		Original: OriginalInfo{
			Width: 800, Height: 600,
			Format: "jpeg", Size: 100000, HasAlpha: false,
		},
		SourceHash:  "0123456789abcdef",
		BlurHash:    "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
		ComponentsX: 4,
		ComponentsY: 3,
		Punch:       1,
		AspectRatio: 1.3333,
		AvgColor:    &[3]uint8{107, 149, 162},
		Preview: &Preview{
			Format: "png", Width: 32, Height: 24, Size: 900,
			Hash: "abcd1234abcd1234", Path: "test/image.32.24.abcd1234.blur.png",
		},
	}
	m.Assets["plain"] = Asset{
		Original:    OriginalInfo{Width: 10, Height: 10, Format: "png", Size: 500},
		BlurHash:    "00Eyb[",
		ComponentsX: 1,
		ComponentsY: 1,
		AspectRatio: 1,
	}
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	for _, name := range []string{FileName, CompressedFileName} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteJSON(sampleManifest(), path))

			m2, err := Read(path)
			require.NoError(t, err)

			assert.Equal(t, SupportedManifestVersion, m2.Version)
			assert.Equal(t, "test-profile", m2.Profile)
			require.NotNil(t, m2.BuildInfo)
			assert.Equal(t, 4, m2.BuildInfo.Workers)
			assert.Equal(t, 64, m2.BuildInfo.WorkSize)

			a, ok := m2.Assets["test/image"]
			require.True(t, ok)
			assert.Equal(t, "LEHV6nWB2yk8pyo0adR*.7kCMdnj", a.BlurHash)
			assert.Equal(t, 4, a.ComponentsX)
			require.NotNil(t, a.Preview)
			assert.Equal(t, "png", a.Preview.Format)
			assert.Equal(t, &[3]uint8{107, 149, 162}, a.AvgColor)

			assert.Equal(t, 2, m2.Stats.TotalAssets)
			assert.Equal(t, 1, m2.Stats.TotalPreviews)
			assert.Equal(t, int64(100500), m2.Stats.TotalInputBytes)
			assert.Equal(t, int64(900), m2.Stats.TotalPreviewBytes)
		})
	}
}

func TestWriteJSON_CompressedIsZstd(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, FileName)
	packed := filepath.Join(dir, CompressedFileName)
	require.NoError(t, WriteJSON(sampleManifest(), plain))
	require.NoError(t, WriteJSON(sampleManifest(), packed))

	raw, err := os.ReadFile(packed)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, zstdMagic))

	text, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.True(t, json.Valid(text))

	// Only the two manifests remain; the temp file is renamed away.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReusedSurvivesComputeStats(t *testing.T) {
	m := sampleManifest()
	m.Stats.Reused = 2
	m.ComputeStats()
	assert.Equal(t, 2, m.Stats.Reused)
	assert.Equal(t, 2, m.Stats.TotalAssets)
}

func TestManifestVersion(t *testing.T) {
	assert.Equal(t, SupportedManifestVersion, New("v-test").Version)
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "codec_workers": 1, "new_flag": true },
		"stats": { "total_input_bytes": 0, "total_assets": 0, "new_stat": 42 }
	}`

	m, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Version)
	require.NotNil(t, m.BuildInfo)
	assert.Equal(t, 8, m.BuildInfo.Workers)
	assert.NotNil(t, m.Assets, "missing assets decode as an empty map")
}

func TestParse_CorruptZstd(t *testing.T) {
	_, err := Parse(append(append([]byte{}, zstdMagic...), 1, 2, 3))
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate(dir)
	assert.Error(t, err)

	packed := filepath.Join(dir, CompressedFileName)
	require.NoError(t, WriteJSON(sampleManifest(), packed))
	got, err := Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, packed, got)

	plain := filepath.Join(dir, FileName)
	require.NoError(t, WriteJSON(sampleManifest(), plain))
	got, err = Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	got, err = Locate(packed)
	require.NoError(t, err)
	assert.Equal(t, packed, got)
}
