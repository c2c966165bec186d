package cmd

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/blurhash"
)

var (
	decodeWidth  int
	decodeHeight int
	decodePunch  float64
	decodeOut    string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hash>",
	Short: "Render a BlurHash into an image file",
	Long: `Renders the placeholder described by <hash> at the requested size and
writes it to --out.  The output format follows the file extension
(png, jpg, gif, bmp, tiff).

--punch scales the contrast of the placeholder; 1 is neutral.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().IntVarP(&decodeWidth, "width", "W", 32, "output width in pixels")
	decodeCmd.Flags().IntVarP(&decodeHeight, "height", "H", 32, "output height in pixels")
	decodeCmd.Flags().Float64Var(&decodePunch, "punch", blurhash.DefaultPunch, "contrast factor")
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "", "output image path")
	_ = decodeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	hash := args[0]
	img, err := blurhash.DecodeImage(hash, decodeWidth, decodeHeight, decodePunch)
	if err != nil {
		return fmt.Errorf("decode %q: %w", hash, err)
	}
	if err := imaging.Save(img, decodeOut); err != nil {
		return fmt.Errorf("write %s: %w", decodeOut, err)
	}
	logVerbose("wrote %dx%d placeholder to %s", decodeWidth, decodeHeight, decodeOut)
	return nil
}
