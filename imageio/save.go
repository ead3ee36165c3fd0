package imageio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/gogpu/pict"
)

// SaveOptions control the lossy encoders. The zero value saves with
// the defaults below.
type SaveOptions struct {
	// JPEGQuality is the JPEG quality in [1, 100]. 0 means 90.
	JPEGQuality int

	// WebPQuality is the lossy WebP quality in [1, 100]. 0 means 90.
	WebPQuality float32

	// WebPLossless switches WebP output to lossless encoding,
	// ignoring WebPQuality.
	WebPLossless bool
}

func (o SaveOptions) jpegQuality() int {
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		return 90
	}
	return o.JPEGQuality
}

func (o SaveOptions) webpQuality() float32 {
	if o.WebPQuality <= 0 || o.WebPQuality > 100 {
		return 90
	}
	return o.WebPQuality
}

// Save encodes img to path, picking the encoder from the extension.
// Supported: .png, .jpg/.jpeg, .gif, .webp, .bmp, .tif/.tiff.
func Save(path string, img *image.NRGBA, opts SaveOptions) error {
	ext := strings.ToLower(filepath.Ext(path))
	var err error
	switch ext {
	case ".webp":
		err = saveWebP(path, img, opts)
	case ".jpg", ".jpeg":
		err = imaging.Save(img, path, imaging.JPEGQuality(opts.jpegQuality()))
	case ".png", ".gif", ".bmp", ".tif", ".tiff":
		err = imaging.Save(img, path)
	default:
		return fmt.Errorf("imageio: unsupported save format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("imageio: save %s: %w", path, err)
	}

	pict.Logger().Info("image saved", "path", path, "format", strings.TrimPrefix(ext, "."))
	return nil
}

func saveWebP(path string, img *image.NRGBA, opts SaveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	wopts := &webp.Options{
		Lossless: opts.WebPLossless,
		Quality:  opts.webpQuality(),
	}
	if err := webp.Encode(f, img, wopts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
