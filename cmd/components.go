package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/blurhash"
)

var componentsCmd = &cobra.Command{
	Use:   "components <hash>",
	Short: "Show the component counts and average colour of a BlurHash",
	Args:  cobra.ExactArgs(1),
	RunE:  runComponents,
}

func init() {
	rootCmd.AddCommand(componentsCmd)
}

func runComponents(cmd *cobra.Command, args []string) error {
	hash := args[0]
	cx, cy, err := blurhash.Components(hash)
	if err != nil {
		return fmt.Errorf("parse %q: %w", hash, err)
	}
	avg, err := blurhash.AverageColor(hash)
	if err != nil {
		return fmt.Errorf("parse %q: %w", hash, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "components: %d x %d\n", cx, cy)
	fmt.Fprintf(out, "length:     %d\n", len(hash))
	fmt.Fprintf(out, "average:    #%02x%02x%02x\n", avg.R, avg.G, avg.B)
	return nil
}
