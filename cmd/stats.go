package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built placeholder directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := manifest.Locate(args[0])
	if err != nil {
		return fmt.Errorf("locate manifest: %w", err)
	}
	m, err := manifest.Read(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d (codec rows: %d)\n", m.BuildInfo.Workers, m.BuildInfo.CodecWorkers)
		if m.BuildInfo.WorkSize > 0 {
			fmt.Fprintf(w, "  Work size:        %d px\n", m.BuildInfo.WorkSize)
		}
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total assets:     %d\n", s.TotalAssets)
	fmt.Fprintf(w, "  Reused:           %d\n", s.Reused)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Previews:         %d (%s)\n", s.TotalPreviews, formatBytes(s.TotalPreviewBytes))
	fmt.Fprintln(w)

	// Per-components breakdown.
	type grid struct{ x, y int }
	gridStats := map[grid]int{}
	hashBytes := 0
	for _, a := range m.Assets {
		gridStats[grid{a.ComponentsX, a.ComponentsY}]++
		hashBytes += len(a.BlurHash)
	}
	grids := make([]grid, 0, len(gridStats))
	for g := range gridStats {
		grids = append(grids, g)
	}
	sort.Slice(grids, func(i, j int) bool {
		if grids[i].x != grids[j].x {
			return grids[i].x < grids[j].x
		}
		return grids[i].y < grids[j].y
	})
	fmt.Fprintln(w, "  Components breakdown:")
	for _, g := range grids {
		fmt.Fprintf(w, "    %dx%d  %4d assets\n", g.x, g.y, gridStats[g])
	}
	if len(m.Assets) > 0 {
		fmt.Fprintf(w, "  Average hash length: %.1f chars\n", float64(hashBytes)/float64(len(m.Assets)))
	}
	fmt.Fprintln(w)

	// Per-format preview breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, a := range m.Assets {
		if a.Preview == nil {
			continue
		}
		fs := formatStats[a.Preview.Format]
		fs.count++
		fs.bytes += a.Preview.Size
		formatStats[a.Preview.Format] = fs
	}
	if len(formatStats) > 0 {
		fmt.Fprintln(w, "  Preview formats:")
		for _, f := range []string{"png", "jpeg", "gif"} {
			if fs, ok := formatStats[f]; ok {
				fmt.Fprintf(w, "    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
			}
		}
		fmt.Fprintln(w)
	}

	// Warnings.
	var warnings []string
	for key, a := range m.Assets {
		if a.BlurHash == "" {
			warnings = append(warnings, fmt.Sprintf("asset %q missing blurhash", key))
		}
		if a.SourceHash == "" {
			warnings = append(warnings, fmt.Sprintf("asset %q missing source hash", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
		fmt.Fprintln(w)
	}
}
