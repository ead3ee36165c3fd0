// Package viewer holds the editing session for one open image: the
// current document and animation position, the view transform, the
// color adjustments, and the crop tool.
//
// A Session is mutated by the input-handling goroutine only. The render
// path never reads it directly: every mutation publishes an immutable
// pict.FrameState into the session's slot, and the renderer picks up
// the latest state at frame start.
package viewer

import (
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/gogpu/pict"
	"github.com/gogpu/pict/config"
	"github.com/gogpu/pict/imageio"
)

// Zoom limits and the per-step zoom factor.
const (
	minZoom  = 0.05
	maxZoom  = 64.0
	zoomStep = 1.1
)

// Session is the mutable editing state for one open document.
type Session struct {
	mu sync.Mutex

	prefs config.Preferences

	// background is the canvas checker derived from the preferences,
	// published with every frame state.
	background pict.CheckerSpec

	doc        *imageio.Document
	frameIndex int
	elapsed    time.Duration
	playing    bool

	// version increments whenever the current frame's pixels change, so
	// the host knows to re-upload the texture.
	version uint64

	viewport pict.Vec2
	zoom     float64
	position pict.Vec2
	flipH    bool
	flipV    bool

	adjust pict.ColorAdjustment
	crop   pict.CropSelection

	slot pict.FrameStateSlot
}

// NewSession creates an empty session with the given preferences.
func NewSession(prefs config.Preferences) *Session {
	prefs.Clamp()
	s := &Session{prefs: prefs, background: prefs.Matte(), zoom: 1}
	s.publishLocked()
	return s
}

// Slot returns the frame state handoff for the render path. The slot
// is safe to read from any goroutine.
func (s *Session) Slot() *pict.FrameStateSlot { return &s.slot }

// SetDocument replaces the open document and resets the view: identity
// adjustments, no crop, playback at frame zero, and the image fitted to
// the viewport.
func (s *Session) SetDocument(doc *imageio.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.frameIndex = 0
	s.elapsed = 0
	s.playing = doc != nil && doc.Animated()
	s.flipH, s.flipV = false, false
	s.adjust = pict.ColorAdjustment{}
	s.crop.Cancel()
	s.version++
	s.fitLocked()
	s.publishLocked()
}

// Document returns the open document, or nil.
func (s *Session) Document() *imageio.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// CurrentFrame returns the frame to display and a version number that
// changes whenever the pixels change.
func (s *Session) CurrentFrame() (*image.NRGBA, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, s.version
	}
	return s.doc.Frame(s.frameIndex), s.version
}

// Advance moves animation playback forward by dt and reports whether
// the displayed frame changed.
func (s *Session) Advance(dt time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || !s.playing || !s.doc.Animated() {
		return false
	}

	changed := false
	s.elapsed += dt
	for {
		delay := s.doc.Delays[s.frameIndex%len(s.doc.Delays)]
		if delay <= 0 {
			// Same floor the GIF loader applies; keeps the loop finite
			// for documents assembled by hand.
			delay = 100 * time.Millisecond
		}
		if s.elapsed < delay {
			break
		}
		s.elapsed -= delay
		s.frameIndex = (s.frameIndex + 1) % len(s.doc.Frames)
		changed = true
	}
	if changed {
		s.version++
	}
	return changed
}

// SetPlaying starts or pauses animation playback.
func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = playing
}

// StepFrame moves the animation by delta frames (negative steps back)
// and pauses playback.
func (s *Session) StepFrame(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || !s.doc.Animated() {
		return
	}
	n := len(s.doc.Frames)
	s.frameIndex = ((s.frameIndex+delta)%n + n) % n
	s.playing = false
	s.elapsed = 0
	s.version++
}

// SetViewport updates the canvas size in pixels. With auto-center
// enabled the image is re-fitted.
func (s *Session) SetViewport(v pict.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v.Max(pict.Vec2{})
	if s.prefs.AutoCenter {
		s.fitLocked()
	}
}

// ZoomAt zooms by the given wheel steps, keeping the canvas point under
// the cursor fixed.
func (s *Session) ZoomAt(steps float64, cursor pict.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.zoom
	s.zoom = clampZoom(old * math.Pow(zoomStep, steps*s.prefs.ZoomSpeed))
	if s.zoom == old {
		return
	}
	// cursor = position + p*zoom for some image point p; keep it fixed.
	s.position = cursor.Sub(cursor.Sub(s.position).Mul(s.zoom / old))
}

// Pan translates the image on the canvas.
func (s *Session) Pan(delta pict.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = s.position.Add(delta)
}

// FitToViewport scales the image to fit the canvas (never upscaling
// past 1:1) and centers it.
func (s *Session) FitToViewport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitLocked()
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// Transform returns the quad transform for the current view. The
// matrix maps image pixel coordinates onto clip space; the flips ride
// along as texture coordinate swaps.
func (s *Session) Transform() pict.ImageTransform {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewport.X <= 0 || s.viewport.Y <= 0 {
		return pict.IdentityTransform()
	}
	proj := pict.Mat4Ortho(0, float32(s.viewport.X), float32(s.viewport.Y), 0)
	model := pict.Mat4Translate(float32(s.position.X), float32(s.position.Y)).
		Mul(pict.Mat4Scale(float32(s.zoom), float32(s.zoom)))
	return pict.ImageTransform{
		Matrix:         proj.Mul(model),
		FlipHorizontal: s.flipH,
		FlipVertical:   s.flipV,
	}
}

// ToggleFlipHorizontal mirrors the displayed image left-right. The
// flip is non-destructive; it swaps texture coordinates only.
func (s *Session) ToggleFlipHorizontal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flipH = !s.flipH
}

// ToggleFlipVertical mirrors the displayed image top-bottom.
func (s *Session) ToggleFlipVertical() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flipV = !s.flipV
}

// RotateLeft rotates every frame a quarter turn counter-clockwise.
// Rotation is destructive, matching the save semantics: what you see
// is what gets written.
func (s *Session) RotateLeft() { s.rotate(imageio.Rotate90) }

// RotateRight rotates every frame a quarter turn clockwise.
func (s *Session) RotateRight() { s.rotate(imageio.Rotate270) }

func (s *Session) rotate(fn func(*image.NRGBA) *image.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return
	}
	for i, frame := range s.doc.Frames {
		s.doc.Frames[i] = fn(frame)
	}
	s.version++
	s.fitLocked()
}

// Blur applies a Gaussian blur to every frame. Like rotation the edit
// is destructive: the blurred pixels are what Save writes.
func (s *Session) Blur(radius float64) {
	if radius <= 0 {
		return
	}
	s.applyToFrames(func(frame *image.NRGBA) *image.NRGBA {
		return imageio.Blur(frame, radius)
	})
}

// Sharpen sharpens every frame. Destructive, like Blur.
func (s *Session) Sharpen() {
	s.applyToFrames(imageio.Sharpen)
}

// applyToFrames rewrites every frame through fn. The image size is
// unchanged, so the view transform stays put.
func (s *Session) applyToFrames(fn func(*image.NRGBA) *image.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return
	}
	for i, frame := range s.doc.Frames {
		s.doc.Frames[i] = fn(frame)
	}
	s.version++
}

// Adjust returns the current color adjustment values.
func (s *Session) Adjust() pict.ColorAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjust
}

// SetAdjust replaces the color adjustment values and publishes the new
// frame state. Values are clamped to their UI ranges.
func (s *Session) SetAdjust(adj pict.ColorAdjustment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjust = adj.Clamped()
	s.publishLocked()
}

// BeginCrop activates the crop tool over the full canvas.
func (s *Session) BeginCrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop.Activate(s.viewport)
	s.publishLocked()
}

// CancelCrop deactivates the crop tool without cropping.
func (s *Session) CancelCrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop.Cancel()
	s.publishLocked()
}

// CropPointerDown forwards a pointer press to the crop tool.
func (s *Session) CropPointerDown(p pict.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop.PointerDown(p)
	s.publishLocked()
}

// CropPointerMove forwards a pointer move to the crop tool.
func (s *Session) CropPointerMove(p pict.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop.PointerMove(p)
	s.publishLocked()
}

// CropPointerUp forwards a pointer release to the crop tool.
func (s *Session) CropPointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop.PointerUp()
	s.publishLocked()
}

// CommitCrop finalizes the selection, maps it from canvas to image
// pixels, and crops every frame. A degenerate or off-image selection
// leaves the document unchanged.
func (s *Session) CommitCrop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.crop.Commit()
	s.publishLocked()
	if !ok || s.doc == nil {
		return nil
	}

	imgRect := pict.RectFromCorners(
		s.canvasToImageLocked(r.Start),
		s.canvasToImageLocked(r.End),
	)
	for i, frame := range s.doc.Frames {
		cropped, err := imageio.Crop(frame, imgRect)
		if err != nil {
			return fmt.Errorf("viewer: crop frame %d: %w", i, err)
		}
		s.doc.Frames[i] = cropped
	}
	s.version++
	s.fitLocked()
	return nil
}

// Save writes the current frame, with adjustments baked in, to path.
// The encoder options come from the session preferences.
func (s *Session) Save(path string) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return fmt.Errorf("viewer: no document open")
	}
	frame := s.doc.Frame(s.frameIndex)
	adj := s.adjust
	flipH, flipV := s.flipH, s.flipV
	opts := s.prefs.SaveOptions()
	s.mu.Unlock()

	// Bake outside the lock; adjustment is pure per pixel.
	out := pict.AdjustImage(frame, adj)
	if flipH {
		out = imageio.FlipHorizontal(out)
	}
	if flipV {
		out = imageio.FlipVertical(out)
	}
	return imageio.Save(path, out, opts)
}

// fitLocked scales the image to fit the viewport, capped at 1:1, and
// centers it.
func (s *Session) fitLocked() {
	w, h := s.imageSizeLocked()
	if w <= 0 || h <= 0 || s.viewport.X <= 0 || s.viewport.Y <= 0 {
		s.zoom = 1
		s.position = pict.Vec2{}
		return
	}
	s.zoom = clampZoom(math.Min(1, math.Min(s.viewport.X/w, s.viewport.Y/h)))
	s.position = s.viewport.Sub(pict.V2(w*s.zoom, h*s.zoom)).Div(2)
}

// canvasToImageLocked maps a canvas point into image pixel coordinates,
// accounting for the active flips.
func (s *Session) canvasToImageLocked(p pict.Vec2) pict.Vec2 {
	q := p.Sub(s.position).Div(s.zoom)
	w, h := s.imageSizeLocked()
	if s.flipH {
		q.X = w - q.X
	}
	if s.flipV {
		q.Y = h - q.Y
	}
	return q
}

func (s *Session) imageSizeLocked() (float64, float64) {
	if s.doc == nil || len(s.doc.Frames) == 0 {
		return 0, 0
	}
	b := s.doc.Frames[0].Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// publishLocked snapshots the render-relevant state into the slot.
func (s *Session) publishLocked() {
	s.slot.Publish(pict.FrameState{
		Adjust:     s.adjust,
		Matte:      pict.TransparencyMatte,
		Background: s.background,
		Crop:       s.crop.Snapshot(),
	})
}

func clampZoom(z float64) float64 {
	return math.Min(maxZoom, math.Max(minZoom, z))
}
