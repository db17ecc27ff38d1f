package transform

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// checkImageDimensions opens path, decodes just enough of it to read its
// pixel dimensions, and reports an error unless those dimensions exactly
// equal want. The blank imports above register PNG, JPEG, GIF, BMP, TIFF
// and WebP decoders with image.DecodeConfig so whichever raster format a
// declared map image happens to use is covered; golang.org/x/image
// supplies the formats the standard library doesn't.
//
// The file is closed before this function returns in every case (success
// or error), matching the scoped-acquisition guarantee spec 5 places on
// image buffers opened during validation.
func checkImageDimensions(path string, want Size) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image file: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	if float64(cfg.Width) != want.W || float64(cfg.Height) != want.H {
		return fmt.Errorf("image is %dx%d, declared size is %gx%g",
			cfg.Width, cfg.Height, want.W, want.H)
	}

	return nil
}
