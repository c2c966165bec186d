package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

var (
	buildOutDir      string
	buildProfile     string
	buildWorkers     int
	buildX           int
	buildY           int
	buildWorkSize    int
	buildPreviews    bool
	buildCompress    bool
	buildIncremental bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Compute BlurHash placeholders for a directory and write a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
computes a BlurHash per image and writes blurhash.manifest.json.

With --previews the placeholder is also rendered to a small image file
with a content-addressed name: <key>.<w>.<h>.<hash>.blur.<ext>

With --incremental an existing manifest in the output directory is read
and images whose bytes and settings are unchanged are not re-encoded.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./blurhash_out", "output directory")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", "default", "processing profile")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().IntVarP(&buildX, "components-x", "x", 0, "components along the longer side (0 = profile default)")
	buildCmd.Flags().IntVarP(&buildY, "components-y", "y", 0, "components along the shorter side (0 = profile default)")
	buildCmd.Flags().IntVar(&buildWorkSize, "work-size", -1, "max side of the encoded image (-1 = profile default, 0 = full size)")
	buildCmd.Flags().BoolVar(&buildPreviews, "previews", false, "render placeholder preview files")
	buildCmd.Flags().BoolVar(&buildCompress, "compress", false, "write a zstd-compressed manifest")
	buildCmd.Flags().BoolVar(&buildIncremental, "incremental", false, "reuse unchanged entries of an existing manifest")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	prof := profile.Get(buildProfile)
	if buildX > 0 {
		prof.ComponentsX = buildX
	}
	if buildY > 0 {
		prof.ComponentsY = buildY
	}
	if buildWorkSize >= 0 {
		prof.WorkSize = buildWorkSize
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (components=%dx%d, work size=%d, punch=%.2f)",
		prof.Name, prof.ComponentsX, prof.ComponentsY, prof.WorkSize, prof.Punch)

	// Create output dir.
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var previous *manifest.Manifest
	if buildIncremental {
		previous, err = loadPrevious(absOutput)
		if err != nil {
			return err
		}
	}

	// Run pipeline.
	p, err := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   buildWorkers,
		Verbose:   verbose,
		Previews:  buildPreviews,
		Previous:  previous,
	})
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	m, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest; drop the other flavour so Locate never finds a stale one.
	name, stale := manifest.FileName, manifest.CompressedFileName
	if buildCompress {
		name, stale = stale, name
	}
	manifestPath := filepath.Join(absOutput, name)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Remove(filepath.Join(absOutput, stale)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale manifest: %w", err)
	}

	printBuildReport(cmd.OutOrStdout(), m, manifestPath, time.Since(start))
	return nil
}

// loadPrevious reads the manifest already present in dir, if any.
func loadPrevious(dir string) (*manifest.Manifest, error) {
	path, err := manifest.Locate(dir)
	if err != nil {
		logVerbose("incremental: no previous manifest in %s", dir)
		return nil, nil
	}
	m, err := manifest.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read previous manifest: %w", err)
	}
	if m.Version != manifest.SupportedManifestVersion {
		logVerbose("incremental: ignoring manifest version %d", m.Version)
		return nil, nil
	}
	logVerbose("incremental: %d previous assets", len(m.Assets))
	return m, nil
}

func printBuildReport(w io.Writer, m *manifest.Manifest, manifestPath string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║            blurhash build complete               ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Assets:      %d\n", s.TotalAssets)
	if s.Reused > 0 {
		fmt.Fprintf(w, "  Reused:      %d (unchanged since last build)\n", s.Reused)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	if s.TotalPreviews > 0 {
		fmt.Fprintf(w, "  Previews:    %d (%s)\n", s.TotalPreviews, formatBytes(s.TotalPreviewBytes))
	}
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d  (codec rows: %d)\n", m.BuildInfo.Workers, m.BuildInfo.CodecWorkers)
	}
	fmt.Fprintln(w)

	// First 10 assets by key.
	if len(m.Assets) > 0 {
		keys := make([]string, 0, len(m.Assets))
		for k := range m.Assets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := min(len(keys), 10)
		fmt.Fprintf(w, "  First %d placeholders:\n", n)
		for _, k := range keys[:n] {
			a := m.Assets[k]
			fmt.Fprintf(w, "    %-32s %5dx%-5d %s\n",
				truncKey(k, 32), a.Original.Width, a.Original.Height, a.BlurHash)
		}
		fmt.Fprintln(w)
	}

	size := int64(0)
	if info, err := os.Stat(manifestPath); err == nil {
		size = info.Size()
	}
	fmt.Fprintf(w, "  Manifest:    %s (%s)\n", filepath.Base(manifestPath), formatBytes(size))
	fmt.Fprintln(w)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
