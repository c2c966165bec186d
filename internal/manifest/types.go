package manifest

// Manifest is the top-level output of a blurhash build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers      int `json:"workers"`
	CodecWorkers int `json:"codec_workers"` // row workers inside one transform
	WorkSize     int `json:"work_size,omitempty"`
}

// Asset describes a single source image and its placeholder.
type Asset struct {
	Original    OriginalInfo `json:"original"`
	SourceHash  string       `json:"source_hash"` // xxhash64 of the source file, hex
	CacheKey    string       `json:"cache_key"`   // source hash mixed with encode settings
	BlurHash    string       `json:"blurhash"`
	ComponentsX int          `json:"components_x"`
	ComponentsY int          `json:"components_y"`
	Punch       float64      `json:"punch"`
	AspectRatio float64      `json:"aspect_ratio"`        // width / height
	AvgColor    *[3]uint8    `json:"avg_color,omitempty"` // DC colour of the hash
	Preview     *Preview     `json:"preview,omitempty"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Preview is the placeholder rendered to an image file.
type Preview struct {
	Format string `json:"format"` // "png", "jpeg", "gif"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // xxhash64 of the file, hex
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes   int64 `json:"total_input_bytes"`
	TotalPreviewBytes int64 `json:"total_preview_bytes"`
	TotalAssets       int   `json:"total_assets"`
	TotalPreviews     int   `json:"total_previews"`
	Reused            int   `json:"reused,omitempty"` // assets carried over from a previous manifest
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest name inside an output directory.
const FileName = "blurhash.manifest.json"

// CompressedFileName is FileName with zstd compression.
const CompressedFileName = FileName + ".zst"
