package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a blurhash manifest and check referenced previews exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath, err := manifest.Locate(args[0])
	if err != nil {
		return fmt.Errorf("locate manifest: %w", err)
	}
	m, err := manifest.Read(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	errs := validateManifest(m, filepath.Dir(manifestPath))
	if len(errs) == 0 {
		fmt.Fprintln(out, "  ✓ Manifest is valid")
		fmt.Fprintf(out, "  ✓ %d assets, %d previews — all hashes decode, all files present\n",
			m.Stats.TotalAssets, m.Stats.TotalPreviews)
		return nil
	}

	fmt.Fprintf(out, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	// Check version.
	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Assets))
	for k := range m.Assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	for _, key := range keys {
		asset := m.Assets[key]

		// Check original dimensions.
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}

		// Check aspect ratio.
		if asset.AspectRatio <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid aspect ratio %.4f", key, asset.AspectRatio))
		}

		errs = append(errs, validateHash(key, asset)...)

		p := asset.Preview
		if p == nil {
			continue
		}
		if p.Format == "" {
			errs = append(errs, fmt.Sprintf("asset %q preview: empty format", key))
		}
		if p.Width <= 0 || p.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q preview: invalid dimensions %dx%d", key, p.Width, p.Height))
		}
		if p.Hash == "" {
			errs = append(errs, fmt.Sprintf("asset %q preview: missing hash", key))
		}
		if p.Path == "" {
			errs = append(errs, fmt.Sprintf("asset %q preview: missing path", key))
			continue
		}

		// Check duplicate paths.
		if other, ok := seenPaths[p.Path]; ok {
			errs = append(errs, fmt.Sprintf("asset %q preview: path %q already used by %q", key, p.Path, other))
		}
		seenPaths[p.Path] = key

		// Check file exists.
		info, err := os.Stat(filepath.Join(baseDir, p.Path))
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q preview: file not found: %s", key, p.Path))
		} else if p.Size > 0 && info.Size() != p.Size {
			errs = append(errs, fmt.Sprintf("asset %q preview: size mismatch: manifest=%d, disk=%d",
				key, p.Size, info.Size()))
		}
	}

	// Verify stats consistency.
	previews := 0
	for _, a := range m.Assets {
		if a.Preview != nil {
			previews++
		}
	}
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalPreviews != previews {
		errs = append(errs, fmt.Sprintf("stats.total_previews mismatch: %d != %d", m.Stats.TotalPreviews, previews))
	}

	return errs
}

// validateHash checks the BlurHash of one asset: length law, full decode
// and agreement with the declared component counts.
func validateHash(key string, a manifest.Asset) []string {
	if a.BlurHash == "" {
		return []string{fmt.Sprintf("asset %q: missing blurhash", key)}
	}
	cx, cy, err := blurhash.Components(a.BlurHash)
	if err != nil {
		return []string{fmt.Sprintf("asset %q: invalid blurhash: %v", key, err)}
	}
	var errs []string
	if want := blurhash.HashLength(cx, cy); len(a.BlurHash) != want {
		errs = append(errs, fmt.Sprintf("asset %q: blurhash length %d, %dx%d components need %d",
			key, len(a.BlurHash), cx, cy, want))
	} else if _, err := blurhash.Decode(a.BlurHash, cx, cy, blurhash.DefaultPunch); err != nil {
		errs = append(errs, fmt.Sprintf("asset %q: blurhash does not decode: %v", key, err))
	}
	if cx != a.ComponentsX || cy != a.ComponentsY {
		errs = append(errs, fmt.Sprintf("asset %q: blurhash has %dx%d components, manifest says %dx%d",
			key, cx, cy, a.ComponentsX, a.ComponentsY))
	}
	return errs
}
