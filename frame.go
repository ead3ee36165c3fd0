package pict

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// FrameState is everything the render pass needs for one frame: the
// adjustment values, the matte specs, and the crop snapshot. It is an
// immutable value captured once at frame start.
type FrameState struct {
	Adjust ColorAdjustment

	// Matte shows through transparent image pixels.
	Matte CheckerSpec

	// Background is the canvas checker drawn behind everything.
	Background CheckerSpec

	Crop CropSnapshot
}

// FrameStateSlot is a single-slot "latest completed" handoff between the
// input-handling goroutine and the render pass. Publish replaces the
// slot; Latest never blocks and never returns a torn value.
type FrameStateSlot struct {
	p atomic.Pointer[FrameState]
}

// Publish stores st as the state for subsequent frames.
func (s *FrameStateSlot) Publish(st FrameState) {
	s.p.Store(&st)
}

// Latest returns the most recently published state, or a zero (identity)
// state if nothing has been published yet.
func (s *FrameStateSlot) Latest() FrameState {
	if st := s.p.Load(); st != nil {
		return *st
	}
	return FrameState{Matte: TransparencyMatte, Background: CanvasMatte}
}

// RenderFrame is the CPU fallback renderer: it applies the color
// pipeline to every pixel of src, composites over the matte, blends the
// crop overlay when active, and returns the opaque display frame.
//
// The work is stateless per pixel with no cross-pixel dependency, so
// rows are partitioned across GOMAXPROCS goroutines without locking.
// The GPU path in the render package implements the same math in WGSL;
// this function doubles as its reference implementation.
func RenderFrame(src *image.NRGBA, st FrameState) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	viewportH := float64(h)

	renderRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				fg := RGBA{
					R: float64(src.Pix[i]) / 255,
					G: float64(src.Pix[i+1]) / 255,
					B: float64(src.Pix[i+2]) / 255,
					A: float64(src.Pix[i+3]) / 255,
				}
				out := Apply(fg, st.Adjust)
				matte := st.Matte.Sample(float64(x), float64(y), viewportH)
				c := CompositeOver(out, matte)
				if st.Crop.Active {
					c = Over(c, OverlaySample(st.Crop, V2(float64(x), float64(y))))
				}
				o := dst.PixOffset(x, y)
				dst.Pix[o] = uint8(clamp255(c.R * 255))
				dst.Pix[o+1] = uint8(clamp255(c.G * 255))
				dst.Pix[o+2] = uint8(clamp255(c.B * 255))
				dst.Pix[o+3] = 255
			}
		}
	})
	return dst
}

// AdjustImage applies the color pipeline to src and re-encodes gamma per
// pixel, preserving alpha, without compositing against a matte. This is
// the save path: the edited image keeps its transparency instead of
// being flattened onto the checker.
func AdjustImage(src *image.NRGBA, adj ColorAdjustment) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	renderRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				fg := RGBA{
					R: float64(src.Pix[i]) / 255,
					G: float64(src.Pix[i+1]) / 255,
					B: float64(src.Pix[i+2]) / 255,
					A: float64(src.Pix[i+3]) / 255,
				}
				out := Apply(fg, adj)
				o := dst.PixOffset(x, y)
				dst.Pix[o] = uint8(clamp255(GammaEncode(out.R) * 255))
				dst.Pix[o+1] = uint8(clamp255(GammaEncode(out.G) * 255))
				dst.Pix[o+2] = uint8(clamp255(GammaEncode(out.B) * 255))
				dst.Pix[o+3] = uint8(clamp255(out.A * 255))
			}
		}
	})
	return dst
}

// renderRows partitions [0,h) into contiguous row bands and runs fn on
// each band concurrently.
func renderRows(h int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		fn(0, h)
		return
	}

	var wg sync.WaitGroup
	band := (h + workers - 1) / workers
	for y := 0; y < h; y += band {
		end := y + band
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y, end)
	}
	wg.Wait()
}
