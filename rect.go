package pict

// Rect is a rectangle in canvas pixel space stored as two opposite
// corners in drag order. Start and End carry no min/max guarantee; the
// normalization invariant is enforced at read time by Normalized, never
// assumed on the stored values.
type Rect struct {
	Start, End Vec2
}

// RectFromCorners creates a Rect from two opposite corners in any order.
func RectFromCorners(a, b Vec2) Rect {
	return Rect{Start: a, End: b}
}

// RectFromSize creates a Rect from a top-left position and a size.
func RectFromSize(pos, size Vec2) Rect {
	return Rect{Start: pos, End: pos.Add(size)}
}

// Normalized returns the rect with Start at the componentwise minimum
// and End at the componentwise maximum of the stored corners.
func (r Rect) Normalized() Rect {
	return Rect{Start: r.Start.Min(r.End), End: r.Start.Max(r.End)}
}

// Size returns the normalized width and height.
func (r Rect) Size() Vec2 {
	n := r.Normalized()
	return n.End.Sub(n.Start)
}

// Width returns the normalized width.
func (r Rect) Width() float64 { return r.Size().X }

// Height returns the normalized height.
func (r Rect) Height() float64 { return r.Size().Y }

// IsDegenerate reports whether the normalized rect has zero width or
// height. A degenerate crop selection is treated as "no selection".
func (r Rect) IsDegenerate() bool {
	s := r.Size()
	return s.X == 0 || s.Y == 0
}

// Contains reports whether p lies inside the normalized rect,
// with inclusive edges.
func (r Rect) Contains(p Vec2) bool {
	n := r.Normalized()
	return p.X >= n.Start.X && p.X <= n.End.X &&
		p.Y >= n.Start.Y && p.Y <= n.End.Y
}

// Translate returns the rect shifted by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{Start: r.Start.Add(d), End: r.End.Add(d)}
}

// Expand returns the normalized rect grown by m on all sides.
func (r Rect) Expand(m float64) Rect {
	n := r.Normalized()
	d := Vec2{X: m, Y: m}
	return Rect{Start: n.Start.Sub(d), End: n.End.Add(d)}
}

// ClampTo returns the normalized rect intersected with the canvas box
// from (0,0) to bounds.
func (r Rect) ClampTo(bounds Vec2) Rect {
	n := r.Normalized()
	return Rect{
		Start: n.Start.Clamp(Vec2{}, bounds),
		End:   n.End.Clamp(Vec2{}, bounds),
	}
}

// Corners returns the four corners of the normalized rect in the order
// top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Vec2 {
	n := r.Normalized()
	return [4]Vec2{
		n.Start,
		{X: n.End.X, Y: n.Start.Y},
		{X: n.Start.X, Y: n.End.Y},
		n.End,
	}
}
