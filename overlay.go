package pict

import "math"

// Crop overlay appearance. The overlay is evaluated per pixel by the
// crop fragment shader and, identically, by OverlaySample on the CPU.
const (
	// GuideMargin is how far the outer guide rectangle is expanded
	// beyond the selection on every side.
	GuideMargin = 2.0

	// DashPeriod is the length in pixels of one dash segment along a
	// guide edge. The two dash colors alternate every period.
	DashPeriod = 8.0
)

// Overlay colors.
var (
	// GuideDashA and GuideDashB alternate along the guide border.
	GuideDashA = RGB(1, 1, 1)
	GuideDashB = RGB(0, 0, 0)

	// ExteriorShade darkens everything outside the selection. It is
	// blended over the frame, not substituted, so the image stays
	// faintly visible.
	ExteriorShade = RGBA{R: 0, G: 0, B: 0, A: 0.5}

	// HandleColor fills the corner handle dots.
	HandleColor = RGB(1, 1, 1)
)

// DashPhase returns 0 or 1 for a distance travelled along a guide edge,
// selecting which of the two dash colors covers that pixel.
func DashPhase(distance float64) int {
	phase := int(math.Round(distance/DashPeriod)) % 2
	if phase < 0 {
		phase += 2
	}
	return phase
}

// OverlaySample evaluates the crop overlay at pixel p and returns the
// color to blend over the composited frame. A zero-alpha result means
// the frame shows through untouched.
//
// Layering, bottom to top:
//   - interior of the selection: fully transparent
//   - exterior: ExteriorShade
//   - guide border (selection expanded by GuideMargin): two-color
//     dashes, taking priority over the exterior shade
//   - corner handles: antialiased dots, always on top
//
// The function is pure and safe for concurrent use across pixel
// partitions.
func OverlaySample(snap CropSnapshot, p Vec2) RGBA {
	if !snap.Active {
		return RGBA{}
	}
	n := snap.Rect.Normalized()

	var out RGBA
	switch {
	case n.Contains(p):
		// Interior stays unobstructed.
	case n.Expand(GuideMargin).Contains(p):
		out = guideColor(n, p)
	default:
		out = ExteriorShade
	}

	for _, corner := range n.Corners() {
		if a := handleCoverage(p, corner); a > 0 {
			out = Over(out, RGBA{
				R: HandleColor.R,
				G: HandleColor.G,
				B: HandleColor.B,
				A: a,
			})
		}
	}
	return out
}

// guideColor picks the dash color for a pixel on the guide border. The
// dash phase follows the distance along the edge the pixel sits on:
// horizontal edges count X, vertical edges count Y.
func guideColor(n Rect, p Vec2) RGBA {
	distance := p.Y - n.Start.Y
	if p.X >= n.Start.X && p.X <= n.End.X {
		// Top or bottom edge.
		distance = p.X - n.Start.X
	}
	if DashPhase(distance) == 0 {
		return GuideDashA
	}
	return GuideDashB
}

// handleCoverage returns the antialiased coverage of a corner handle dot
// at pixel p: full within HandleRadius-1, a linear falloff across the
// outer 1px ring, zero beyond.
func handleCoverage(p, corner Vec2) float64 {
	d := p.Distance(corner)
	switch {
	case d <= HandleRadius-1:
		return 1
	case d < HandleRadius:
		return HandleRadius - d
	default:
		return 0
	}
}
