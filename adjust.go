package pict

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Display gamma exponent. Decode linearizes a display-encoded channel,
// encode is its inverse and runs once, after compositing (see CompositeOver).
const gamma = 2.2

// ColorAdjustment holds the per-frame color adjustment values for the
// displayed image. The zero value is the identity transform.
//
// The host UI clamps values into their documented ranges before handing
// them to the pipeline; Apply additionally tolerates out-of-range input
// by clamping intermediate results, never by returning an error.
type ColorAdjustment struct {
	// Hue is the hue rotation angle in degrees, UI range [-180, 180].
	// The rotation matrix is 2π-periodic, so any finite value works.
	Hue float64

	// Contrast is a percentage in [-100, 100].
	Contrast float64

	// Brightness is a percentage in [-100, 100], added directly to each
	// RGB channel.
	Brightness float64

	// Saturation is a percentage in [-100, 100], added to the HSL
	// saturation channel.
	Saturation float64

	// Grayscale collapses RGB to Rec.601 luma when set.
	Grayscale bool

	// Invert flips each RGB channel (1-c) when set.
	Invert bool
}

// IsIdentity reports whether the adjustment leaves pixels unchanged.
// The render path skips the color stages entirely in that case.
func (a ColorAdjustment) IsIdentity() bool {
	return a.Hue == 0 && a.Contrast == 0 && a.Brightness == 0 &&
		a.Saturation == 0 && !a.Grayscale && !a.Invert
}

// Clamped returns a copy with every field restricted to its UI range.
func (a ColorAdjustment) Clamped() ColorAdjustment {
	a.Hue = clampf(a.Hue, -180, 180)
	a.Contrast = clampf(a.Contrast, -100, 100)
	a.Brightness = clampf(a.Brightness, -100, 100)
	a.Saturation = clampf(a.Saturation, -100, 100)
	return a
}

// GammaDecode linearizes a display-encoded channel value.
func GammaDecode(c float64) float64 {
	return math.Pow(c, 1/gamma)
}

// GammaEncode re-applies display encoding to a linear channel value.
// It is the exact inverse of GammaDecode.
func GammaEncode(c float64) float64 {
	return math.Pow(c, gamma)
}

// HueRotation returns the 3x3 luma-preserving hue rotation matrix for an
// angle in degrees, in row-major order. At deg=0 the matrix is identity.
//
// The coefficients match the SVG/CSS feColorMatrix hueRotate primitive;
// they must not be altered, reordered, or "simplified".
func HueRotation(deg float64) [9]float64 {
	rad := deg * math.Pi / 180
	cosv := math.Cos(rad)
	sinv := math.Sin(rad)
	return [9]float64{
		0.213 + cosv*0.787 - sinv*0.213,
		0.715 - cosv*0.715 - sinv*0.715,
		0.072 - cosv*0.072 + sinv*0.928,

		0.213 - cosv*0.213 + sinv*0.143,
		0.715 + cosv*0.285 + sinv*0.140,
		0.072 - cosv*0.072 - sinv*0.283,

		0.213 - cosv*0.213 - sinv*0.787,
		0.715 - cosv*0.715 + sinv*0.715,
		0.072 + cosv*0.928 + sinv*0.072,
	}
}

// Apply runs the color adjustment chain on a single pixel and returns the
// result in linear light. The stage order is fixed and must not change:
//
//  1. gamma decode
//  2. hue rotate
//  3. contrast
//  4. saturation (HSL, additive clamp)
//  5. brightness (direct RGB add)
//  6. grayscale
//  7. invert
//
// Display gamma is re-encoded by CompositeOver after blending against the
// matte, not here, so transparent regions show the matte color exactly
// and gamma is never applied twice.
//
// Alpha passes through untouched. Apply is total, deterministic, and
// side-effect free; it is safe to call concurrently from any number of
// goroutines.
func Apply(px RGBA, adj ColorAdjustment) RGBA {
	r := GammaDecode(clamp01(px.R))
	g := GammaDecode(clamp01(px.G))
	b := GammaDecode(clamp01(px.B))

	if adj.Hue != 0 {
		m := HueRotation(adj.Hue)
		r, g, b = clamp01(m[0]*r+m[1]*g+m[2]*b),
			clamp01(m[3]*r+m[4]*g+m[5]*b),
			clamp01(m[6]*r+m[7]*g+m[8]*b)
	}

	if adj.Contrast != 0 {
		percent := (100 + adj.Contrast) / 100
		percent *= percent
		r = clamp01((r-0.5)*percent + 0.5)
		g = clamp01((g-0.5)*percent + 0.5)
		b = clamp01((b-0.5)*percent + 0.5)
	}

	if adj.Saturation != 0 {
		r, g, b = saturate(r, g, b, adj.Saturation/100)
	}

	if adj.Brightness != 0 {
		d := adj.Brightness / 100
		r = clamp01(r + d)
		g = clamp01(g + d)
		b = clamp01(b + d)
	}

	if adj.Grayscale {
		luma := 0.299*r + 0.587*g + 0.114*b
		r, g, b = luma, luma, luma
	}

	if adj.Invert {
		r, g, b = 1-r, 1-g, 1-b
	}

	return RGBA{R: r, G: g, B: b, A: px.A}
}

// saturate shifts the HSL saturation channel by delta (a [-1, 1]
// fraction) and clamps the result to [0, 1]. Input channels must already
// be clamped to [0, 1]; the conversion is undefined (NaN) outside that
// range.
func saturate(r, g, b, delta float64) (float64, float64, float64) {
	h, s, l := colorful.Color{R: r, G: g, B: b}.Hsl()
	out := colorful.Hsl(h, clamp01(s+delta), l)
	return clamp01(out.R), clamp01(out.G), clamp01(out.B)
}

// clampf restricts x to [lo, hi].
func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
