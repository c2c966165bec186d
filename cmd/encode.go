package cmd

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/blurhash-cli/blurhash"
)

var (
	encodeX        int
	encodeY        int
	encodeWorkSize int
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image> [image...]",
	Short: "Print the BlurHash of one or more images",
	Long: `Decodes each image (png, jpeg, gif, webp, bmp, tiff; EXIF orientation is
applied) and prints its BlurHash.  With several images every line is
"<hash>\t<path>" and images are encoded concurrently.

--work-size shrinks the image so its longer side fits before encoding.
The hash changes slightly but encoding large photos becomes much cheaper.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().IntVarP(&encodeX, "components-x", "x", blurhash.DefaultComponentsX, "horizontal components (1-9)")
	encodeCmd.Flags().IntVarP(&encodeY, "components-y", "y", 3, "vertical components (1-9)")
	encodeCmd.Flags().IntVar(&encodeWorkSize, "work-size", 0, "max side of the encoded image (0 = full size)")
	rootCmd.AddCommand(encodeCmd)
}

// loadImage opens path and applies the work size.
func loadImage(path string, workSize int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	b := img.Bounds()
	if workSize > 0 && (b.Dx() > workSize || b.Dy() > workSize) {
		logVerbose("%s: %dx%d fitted into %d", path, b.Dx(), b.Dy(), workSize)
		return imaging.Fit(img, workSize, workSize, imaging.Box), nil
	}
	return img, nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		img, err := loadImage(args[0], encodeWorkSize)
		if err != nil {
			return err
		}
		hash, err := blurhash.EncodeImage(img, encodeX, encodeY)
		if err != nil {
			return fmt.Errorf("encode %s: %w", args[0], err)
		}
		fmt.Fprintln(out, hash)
		return nil
	}

	reqs := make([]blurhash.EncodeRequest, len(args))
	loadErrs := make([]error, len(args))
	for i, path := range args {
		img, err := loadImage(path, encodeWorkSize)
		if err != nil {
			loadErrs[i] = err
			continue
		}
		b := img.Bounds()
		reqs[i] = blurhash.EncodeRequest{
			Pixels:      blurhash.RGB(img),
			Width:       b.Dx(),
			Height:      b.Dy(),
			ComponentsX: encodeX,
			ComponentsY: encodeY,
		}
	}

	failed := 0
	for i, r := range blurhash.EncodeBatch(cmd.Context(), reqs) {
		err := loadErrs[i]
		if err == nil {
			err = r.Err
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "[blurhash] error: %s: %v\n", args[i], err)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", r.Hash, args[i])
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(args))
	}
	return nil
}
