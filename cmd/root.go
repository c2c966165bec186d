package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blurhash",
	Short: "BlurHash placeholders for images and image directories",
	Long: `blurhash — encodes images into compact BlurHash strings and renders
them back into blurred placeholders.

Single images are handled by encode/decode/components.  The build command
walks a directory, writes a manifest with one placeholder per image and,
optionally, rendered preview files with content-addressed names.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"blurhash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[blurhash] "+format+"\n", args...)
	}
}
