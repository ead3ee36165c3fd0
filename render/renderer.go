// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pict"
)

// targetFormat is the color format of every pass target. Window
// surfaces on the supported backends hand out BGRA8.
const targetFormat = gputypes.TextureFormatBGRA8Unorm

// gpuTimeout bounds the fence wait after a frame submit.
const gpuTimeout = 5 * time.Second

// FrameParams is the value snapshot a single frame is rendered from.
// The caller assembles it once per frame; nothing here aliases mutable
// editing state.
type FrameParams struct {
	// Viewport is the target size in pixels.
	Viewport pict.Vec2

	// Transform places the image quad on the canvas.
	Transform pict.ImageTransform

	// State carries the adjustment, matte, and crop snapshots.
	State pict.FrameState
}

// Renderer owns the three viewer pipelines and records them into a
// target texture view each frame. It must be used from a single
// goroutine; publish editing state through a pict.FrameStateSlot and
// snapshot it into FrameParams instead of sharing the Renderer.
type Renderer struct {
	device hal.Device
	queue  hal.Queue

	background *backgroundPipeline
	image      *imagePipeline
	crop       *cropPipeline

	hasImage bool
}

// NewRenderer creates a renderer on the host-provided device and queue.
// Pipelines are compiled lazily on the first frame.
func NewRenderer(device hal.Device, queue hal.Queue) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, errors.New("render: nil device or queue")
	}
	return &Renderer{
		device:     device,
		queue:      queue,
		background: newBackgroundPipeline(device, queue),
		image:      newImagePipeline(device, queue),
		crop:       newCropPipeline(device, queue),
	}, nil
}

// SetImage uploads a decoded image for subsequent frames. The texture
// is recreated only when the dimensions change, so stepping through
// same-sized animation frames re-uses the allocation.
func (r *Renderer) SetImage(img *image.NRGBA) error {
	if img == nil {
		r.hasImage = false
		return nil
	}
	if err := r.image.setImage(img); err != nil {
		return err
	}
	r.hasImage = true
	pict.Logger().Debug("image texture uploaded",
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// RenderFrame records and submits one frame into the given target view:
// checker background, then the image quad (when an image is set), then
// the crop overlay (when the selection is active).
func (r *Renderer) RenderFrame(view hal.TextureView, params FrameParams) error {
	if view == nil {
		return errors.New("render: nil target view")
	}
	started := time.Now()

	frame, err := r.prepareFrame(params)
	if err != nil {
		return err
	}
	defer r.destroyFrame(frame)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pict_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pict_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pict_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	r.recordFrame(rp, frame)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	if err := r.submitAndWait(cmdBuf); err != nil {
		return err
	}

	pict.Logger().Debug("frame rendered",
		"elapsed", time.Since(started),
		"image", frame.image != nil,
		"crop", frame.crop != nil)
	return nil
}

// RenderToImage renders one frame offscreen and reads the pixels back.
// It drives the exact pipelines the window path uses, which makes it
// suitable for thumbnails and for verifying shader output headlessly.
func (r *Renderer) RenderToImage(width, height int, params FrameParams) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: bad target size %dx%d", width, height)
	}
	w, h := uint32(width), uint32(height) //nolint:gosec // validated above

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "pict_offscreen",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	defer r.device.DestroyTexture(tex)

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "pict_offscreen_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen view: %w", err)
	}
	defer r.device.DestroyTextureView(view)

	frame, err := r.prepareFrame(params)
	if err != nil {
		return nil, err
	}
	defer r.destroyFrame(frame)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pict_offscreen_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pict_offscreen"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pict_offscreen_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	r.recordFrame(rp, frame)
	rp.End()

	// The attachment must transition before CopyTextureToBuffer.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pict_offscreen_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	if err := r.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	readback := make([]byte, pixelBufSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	return bgraToNRGBA(readback, width, height), nil
}

// Destroy releases all GPU resources. Safe to call more than once.
func (r *Renderer) Destroy() {
	r.crop.destroy()
	r.image.destroy()
	r.background.destroy()
	r.hasImage = false
}

// frameResources bundles the per-frame resources of all active passes.
type frameResources struct {
	background *backgroundFrameResources
	image      *imageFrameResources
	crop       *cropFrameResources
}

// prepareFrame compiles pipelines on first use and uploads the frame's
// uniform and vertex data.
func (r *Renderer) prepareFrame(params FrameParams) (*frameResources, error) {
	frame := &frameResources{}

	if err := r.background.ensurePipeline(); err != nil {
		return nil, err
	}
	bg, err := r.background.prepare(backgroundSpec(params.State), params.Viewport)
	if err != nil {
		return nil, err
	}
	frame.background = bg

	if r.hasImage {
		if err := r.image.ensurePipeline(); err != nil {
			r.destroyFrame(frame)
			return nil, err
		}
		res, err := r.image.prepare(params)
		if err != nil {
			r.destroyFrame(frame)
			return nil, err
		}
		frame.image = res
	}

	if params.State.Crop.Active {
		if err := r.crop.ensurePipeline(); err != nil {
			r.destroyFrame(frame)
			return nil, err
		}
		res, err := r.crop.prepare(params.State.Crop, params.Viewport)
		if err != nil {
			r.destroyFrame(frame)
			return nil, err
		}
		frame.crop = res
	}

	return frame, nil
}

// backgroundSpec picks the canvas checker for the frame. A state with
// no background (zero cell size) falls back to the stock spec.
func backgroundSpec(st pict.FrameState) pict.CheckerSpec {
	if st.Background.CellSize > 0 {
		return st.Background
	}
	return pict.CanvasMatte
}

// recordFrame records the active passes back to front.
func (r *Renderer) recordFrame(rp hal.RenderPassEncoder, frame *frameResources) {
	r.background.recordDraws(rp, frame.background)
	if frame.image != nil {
		r.image.recordDraws(rp, frame.image)
	}
	if frame.crop != nil {
		r.crop.recordDraws(rp, frame.crop)
	}
}

func (r *Renderer) destroyFrame(frame *frameResources) {
	if frame == nil {
		return
	}
	r.crop.destroyFrame(frame.crop)
	r.image.destroyFrame(frame.image)
	r.background.destroyFrame(frame.background)
}

// submitAndWait submits one command buffer and blocks until the GPU
// signals the fence.
func (r *Renderer) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// bgraToNRGBA converts readback pixels into an NRGBA image. The frame
// output is opaque, so the byte swap is the whole conversion.
func bgraToNRGBA(bgra []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i+3 < len(bgra); i += 4 {
		img.Pix[i] = bgra[i+2]
		img.Pix[i+1] = bgra[i+1]
		img.Pix[i+2] = bgra[i]
		img.Pix[i+3] = bgra[i+3]
	}
	return img
}
