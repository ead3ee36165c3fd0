// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws the viewer frame on the GPU.
//
// The package builds three render pipelines over the wgpu HAL: a
// fullscreen checker pass for the empty canvas, a textured quad pass
// that runs the color adjustment chain in its fragment shader, and a
// fullscreen crop overlay pass blended on top with premultiplied alpha.
// All three consume the uniform blocks packed by the root package, so
// the CPU and GPU paths share one layout definition.
//
// # Key Principle
//
// pict RECEIVES a GPU device from the host application, it does NOT
// create one. The host (e.g. a gogpu.App window) owns the device, the
// queue, and the surface; the Renderer here only records passes into
// the texture view it is handed each frame.
//
// # Usage
//
//	r := render.NewRenderer(device, queue)
//	defer r.Destroy()
//
//	if err := r.SetImage(decoded); err != nil { ... }
//
//	// Per frame, on the render goroutine:
//	err := r.RenderFrame(surfaceView, render.FrameParams{
//	    Viewport:  pict.V2(float64(w), float64(h)),
//	    Transform: transform,
//	    State:     slot.Latest(),
//	})
//
// FrameParams is a value snapshot; nothing in this package reads
// mutable editing state while a pass is being recorded.
package render
