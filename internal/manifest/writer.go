package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Assets:      make(map[string]Asset),
	}
}

// ComputeStats recalculates aggregate statistics from assets.  Reused is a
// build-time counter and is left as is.
func (m *Manifest) ComputeStats() {
	s := Stats{Reused: m.Stats.Reused}
	s.TotalAssets = len(m.Assets)
	for _, a := range m.Assets {
		s.TotalInputBytes += a.Original.Size
		if a.Preview != nil {
			s.TotalPreviews++
			s.TotalPreviewBytes += a.Preview.Size
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to path.  A ".zst" suffix selects zstd
// compression.  The file is replaced atomically.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if strings.HasSuffix(path, ".zst") {
		enc := zstdEncPool.Get().(*zstd.Encoder)
		data = enc.EncodeAll(data, nil)
		zstdEncPool.Put(enc)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// zstdMagic opens every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Read loads a manifest written by WriteJSON, plain or compressed.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes manifest bytes, decompressing zstd frames first.
func Parse(data []byte) (*Manifest, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec := zstdDecPool.Get().(*zstd.Decoder)
		plain, err := dec.DecodeAll(data, nil)
		zstdDecPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
		data = plain
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Assets == nil {
		m.Assets = make(map[string]Asset)
	}
	return &m, nil
}

// Locate resolves a directory to the manifest inside it, preferring the
// plain file over the compressed one.  Other paths are returned unchanged.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range []string{FileName, CompressedFileName} {
		p := filepath.Join(path, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s in %s", FileName, path)
}

// ─── zstd pools ──────────────────────────────────────────────

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			panic(err)
		}
		return dec
	},
}
