package pict

import "math"

// CheckerSpec describes a two-color checkerboard pattern.
//
// The pattern is a pure function of screen position and viewport height:
// the vertical phase is anchored to the bottom edge of the canvas, so the
// checker does not swim when the canvas is resized from the top.
type CheckerSpec struct {
	// CellSize is the edge length of one checker cell in pixels.
	CellSize float64

	// ColorA is the color of cells whose coordinate sum is even.
	ColorA RGBA

	// ColorB is the color of the remaining cells.
	ColorB RGBA
}

// Stock checker specs. CanvasMatte fills the empty canvas behind the
// image quad; TransparencyMatte shows through semi-transparent pixels.
var (
	CanvasMatte = CheckerSpec{
		CellSize: 32,
		ColorA:   RGB(0.05, 0.05, 0.05),
		ColorB:   RGB(0.10, 0.10, 0.10),
	}

	TransparencyMatte = CheckerSpec{
		CellSize: 16,
		ColorA:   RGB(0.40, 0.40, 0.40),
		ColorB:   RGB(0.60, 0.60, 0.60),
	}
)

// Sample returns the checker color at pixel position (px, py) for a
// canvas of the given viewport height. Cell parity is computed from the
// floored cell coordinates; cells where x+y is even take ColorA.
func (s CheckerSpec) Sample(px, py, viewportHeight float64) RGBA {
	x := int64(math.Floor(px / s.CellSize))
	y := int64(math.Floor((py - viewportHeight) / s.CellSize))
	if (x+y)%2 == 0 {
		return s.ColorA
	}
	return s.ColorB
}
