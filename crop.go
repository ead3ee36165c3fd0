package pict

// Crop handle geometry, in canvas pixels.
const (
	// HandleRadius is the draw radius of a corner handle dot.
	HandleRadius = 5.0

	// HandleHitRadius is the pointer hit-test radius around a corner.
	// Larger than the draw radius so handles are easy to grab.
	HandleHitRadius = 10.0
)

// CropState enumerates the crop tool interaction states.
type CropState int

const (
	// CropInactive means the crop tool is off; no rect exists.
	CropInactive CropState = iota

	// CropIdle means a selection rect exists and no drag is in progress.
	CropIdle

	// CropDragging means a corner or the whole rect is being dragged.
	CropDragging
)

// cropAnchor identifies what a drag is attached to.
type cropAnchor int

const (
	anchorNone cropAnchor = iota
	anchorCorner           // dragging rect.End, rect.Start pinned to the opposite corner
	anchorMove             // translating the whole rect
)

// CropSelection is the interaction state machine for the rectangular
// crop tool. It is owned exclusively by the input-handling goroutine;
// the render path must read an immutable Snapshot taken at the start of
// each frame rather than touching the selection directly.
//
// The stored rect keeps raw drag order. Every read goes through
// Rect.Normalized, so dragging from bottom-right to top-left produces
// the same selection as the reverse drag.
type CropSelection struct {
	state   CropState
	rect    Rect
	canvas  Vec2
	anchor  cropAnchor
	lastPos Vec2 // previous pointer position during a move drag
}

// State returns the current interaction state.
func (c *CropSelection) State() CropState { return c.state }

// Rect returns the current selection in normalized form. The second
// result is false when the tool is inactive.
func (c *CropSelection) Rect() (Rect, bool) {
	if c.state == CropInactive {
		return Rect{}, false
	}
	return c.rect.Normalized(), true
}

// Activate turns the crop tool on for a canvas of the given size. The
// default selection covers the full canvas.
func (c *CropSelection) Activate(canvasSize Vec2) {
	c.canvas = canvasSize.Max(Vec2{})
	c.rect = RectFromCorners(Vec2{}, c.canvas)
	c.state = CropIdle
	c.anchor = anchorNone
	Logger().Debug("crop activated", "w", c.canvas.X, "h", c.canvas.Y)
}

// Cancel turns the crop tool off and discards the selection.
func (c *CropSelection) Cancel() {
	c.state = CropInactive
	c.rect = Rect{}
	c.anchor = anchorNone
}

// PointerDown begins a drag. A press within HandleHitRadius of a corner
// grabs that corner; a press inside the rect (but not on a handle) grabs
// the whole rect for moving; a press anywhere else is ignored.
func (c *CropSelection) PointerDown(p Vec2) {
	if c.state != CropIdle {
		return
	}

	if corner, ok := c.hitCorner(p); ok {
		n := c.rect.Normalized()
		corners := n.Corners()
		// Pin the opposite corner; the grabbed one follows the pointer.
		c.rect = RectFromCorners(corners[3-corner], corners[corner])
		c.anchor = anchorCorner
		c.state = CropDragging
		return
	}

	if c.rect.Contains(p) {
		c.anchor = anchorMove
		c.lastPos = p.Clamp(Vec2{}, c.canvas)
		c.state = CropDragging
	}
}

// PointerMove updates the drag in progress. Pointer coordinates outside
// the canvas are clamped to its bounds, never rejected. A no-op unless a
// drag is active.
func (c *CropSelection) PointerMove(p Vec2) {
	if c.state != CropDragging {
		return
	}
	p = p.Clamp(Vec2{}, c.canvas)

	switch c.anchor {
	case anchorCorner:
		c.rect.End = p
	case anchorMove:
		delta := p.Sub(c.lastPos)
		c.lastPos = p
		c.rect = c.moveWithin(delta)
	}
}

// PointerUp ends the drag and returns to Idle.
func (c *CropSelection) PointerUp() {
	if c.state != CropDragging {
		return
	}
	c.state = CropIdle
	c.anchor = anchorNone
}

// Commit finalizes the selection and deactivates the tool. It returns
// the normalized rect, clamped to the canvas, and true when the rect is
// usable. A degenerate selection (zero width or height) yields false:
// the crop collaborator must receive no request in that case.
func (c *CropSelection) Commit() (Rect, bool) {
	if c.state == CropInactive {
		return Rect{}, false
	}
	r := c.rect.ClampTo(c.canvas)
	c.Cancel()
	if r.IsDegenerate() {
		Logger().Debug("crop commit skipped, degenerate selection")
		return Rect{}, false
	}
	Logger().Info("crop committed",
		"x", r.Start.X, "y", r.Start.Y, "w", r.Width(), "h", r.Height())
	return r, true
}

// Snapshot returns an immutable copy of the state the render pass needs.
func (c *CropSelection) Snapshot() CropSnapshot {
	r, active := c.Rect()
	return CropSnapshot{Active: active, Rect: r}
}

// CropSnapshot is the per-frame immutable view of the crop selection.
// The render pass captures one snapshot at frame start and never reads
// the live CropSelection, so there are no torn reads and no lock is held
// across the frame.
type CropSnapshot struct {
	Active bool
	Rect   Rect
}

// hitCorner returns the index (per Rect.Corners ordering) of the corner
// within HandleHitRadius of p, if any. When two corners are in range the
// nearer one wins.
func (c *CropSelection) hitCorner(p Vec2) (int, bool) {
	corners := c.rect.Normalized().Corners()
	best, bestDist := -1, HandleHitRadius
	for i, corner := range corners {
		if d := corner.Distance(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// moveWithin translates the rect by delta, limiting the translation so
// the rect stays inside the canvas without changing size.
func (c *CropSelection) moveWithin(delta Vec2) Rect {
	n := c.rect.Normalized()
	size := n.End.Sub(n.Start)
	maxPos := c.canvas.Sub(size).Max(Vec2{})
	pos := n.Start.Add(delta).Clamp(Vec2{}, maxPos)
	return RectFromSize(pos, size)
}
