package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	xwebp "golang.org/x/image/webp"

	// Register BMP and TIFF with image.Decode.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/gogpu/pict"
)

// ErrUnknownFormat is returned when no decoder recognizes the file.
var ErrUnknownFormat = errors.New("imageio: unknown image format")

// Document is a decoded image file: one frame for stills, several with
// per-frame delays for animated GIFs.
type Document struct {
	// Path is the file the document was loaded from.
	Path string

	// Format is the decoded format name ("png", "gif", "webp", ...).
	Format string

	// Frames holds at least one frame.
	Frames []*image.NRGBA

	// Delays has one entry per frame for animations, or is nil.
	Delays []time.Duration
}

// Animated reports whether the document has more than one frame.
func (d *Document) Animated() bool {
	return len(d.Frames) > 1
}

// Frame returns frame i with wrap-around, so callers can step an
// animation with a bare counter.
func (d *Document) Frame(i int) *image.NRGBA {
	n := len(d.Frames)
	i %= n
	if i < 0 {
		i += n
	}
	return d.Frames[i]
}

// Load decodes the file at path into a Document.
//
// GIFs are decoded with all frames, each coalesced onto the previous
// one so every frame is a full image. Other formats decode to a single
// frame; WebP falls back to an explicit decoder when the registered
// ones refuse the file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".gif") {
		doc, err := loadGIF(path, f)
		if err == nil {
			return doc, nil
		}
		if _, serr := f.Seek(0, 0); serr != nil {
			return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
		}
		// Fall through to the single-frame path for broken animations.
	}

	img, format, err := image.Decode(f)
	if err != nil {
		if _, serr := f.Seek(0, 0); serr == nil {
			if wimg, werr := xwebp.Decode(f); werr == nil {
				img, format = wimg, "webp"
				err = nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
		}
	}

	doc := &Document{
		Path:   path,
		Format: format,
		Frames: []*image.NRGBA{toNRGBA(img)},
	}
	pict.Logger().Info("image loaded",
		"path", path, "format", format,
		"width", doc.Frames[0].Bounds().Dx(), "height", doc.Frames[0].Bounds().Dy())
	return doc, nil
}

// loadGIF decodes every frame of a GIF, coalescing partial frames onto
// the accumulated canvas so each returned frame stands alone.
func loadGIF(path string, f *os.File) (*Document, error) {
	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, ErrUnknownFormat
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)

	doc := &Document{
		Path:   path,
		Format: "gif",
		Frames: make([]*image.NRGBA, 0, len(g.Image)),
		Delays: make([]time.Duration, 0, len(g.Image)),
	}
	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		copied := image.NewNRGBA(bounds)
		copy(copied.Pix, canvas.Pix)
		doc.Frames = append(doc.Frames, copied)

		delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if delay <= 0 {
			delay = 100 * time.Millisecond
		}
		doc.Delays = append(doc.Delays, delay)
	}
	if len(doc.Frames) == 1 {
		doc.Delays = nil
	}

	pict.Logger().Info("animation loaded",
		"path", path, "frames", len(doc.Frames),
		"width", bounds.Dx(), "height", bounds.Dy())
	return doc, nil
}

// toNRGBA normalizes any decoded image to straight-alpha NRGBA with a
// zero origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
