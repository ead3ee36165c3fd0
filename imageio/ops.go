package imageio

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/gogpu/pict"
)

// Filter selects the resampling kernel for Resize.
type Filter string

// Supported resampling filters, cheapest first.
const (
	FilterNearest    Filter = "nearest"
	FilterLinear     Filter = "linear"
	FilterCatmullRom Filter = "catmullrom"
	FilterGaussian   Filter = "gaussian"
	FilterLanczos    Filter = "lanczos"
)

// resampleFilters maps filter names onto the imaging kernels.
var resampleFilters = map[Filter]imaging.ResampleFilter{
	FilterNearest:    imaging.NearestNeighbor,
	FilterLinear:     imaging.Linear,
	FilterCatmullRom: imaging.CatmullRom,
	FilterGaussian:   imaging.Gaussian,
	FilterLanczos:    imaging.Lanczos,
}

// Crop cuts the selection rect out of img. The rect is normalized and
// clamped to the image bounds first; an empty result is an error, the
// caller should treat it as "selection missed the image".
func Crop(img *image.NRGBA, sel pict.Rect) (*image.NRGBA, error) {
	b := img.Bounds()
	n := sel.Normalized().ClampTo(pict.V2(float64(b.Dx()), float64(b.Dy())))

	r := image.Rect(
		int(math.Floor(n.Start.X)), int(math.Floor(n.Start.Y)),
		int(math.Ceil(n.End.X)), int(math.Ceil(n.End.Y)),
	).Add(b.Min)
	if r.Empty() {
		return nil, fmt.Errorf("imageio: empty crop %v", r)
	}

	out := imaging.Crop(img, r)
	pict.Logger().Info("image cropped",
		"width", out.Bounds().Dx(), "height", out.Bounds().Dy())
	return out, nil
}

// Resize scales img to width x height with the given filter. A zero
// width or height is computed from the other to preserve aspect ratio.
func Resize(img *image.NRGBA, width, height int, filter Filter) (*image.NRGBA, error) {
	kernel, ok := resampleFilters[filter]
	if !ok {
		return nil, fmt.Errorf("imageio: unknown filter %q", filter)
	}
	if width <= 0 && height <= 0 {
		return nil, fmt.Errorf("imageio: resize to %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, kernel), nil
}

// FlipHorizontal mirrors img left to right.
func FlipHorizontal(img *image.NRGBA) *image.NRGBA {
	return imaging.FlipH(img)
}

// FlipVertical mirrors img top to bottom.
func FlipVertical(img *image.NRGBA) *image.NRGBA {
	return imaging.FlipV(img)
}

// Rotate90 rotates img a quarter turn counter-clockwise.
func Rotate90(img *image.NRGBA) *image.NRGBA {
	return imaging.Rotate90(img)
}

// Rotate270 rotates img a quarter turn clockwise.
func Rotate270(img *image.NRGBA) *image.NRGBA {
	return imaging.Rotate270(img)
}

// Blur applies a Gaussian blur with the given radius in pixels.
func Blur(img *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	return rgbaToNRGBA(blur.Gaussian(img, radius))
}

// Sharpen applies the standard sharpen kernel once.
func Sharpen(img *image.NRGBA) *image.NRGBA {
	return rgbaToNRGBA(effect.Sharpen(img))
}

// rgbaToNRGBA converts bild output back to the straight-alpha layout
// the rest of the module uses.
func rgbaToNRGBA(img *image.RGBA) *image.NRGBA {
	return imaging.Clone(img)
}
