// Package pict implements the rendering core of an interactive raster
// image viewer/editor.
//
// # Overview
//
// pict owns the deterministic per-pixel color adjustment chain (gamma,
// hue rotation, contrast, saturation, brightness, grayscale, invert),
// the checkerboard matte shown behind transparent pixels and the empty
// canvas, alpha compositing of the adjusted image over that matte, and
// the interactive rectangular crop selection with its overlay (dashed
// guides, darkened exterior, corner handles).
//
// The package is deliberately host-agnostic: image decoding/encoding
// lives in imageio, GPU submission in render, and the editing session in
// viewer. Everything here is a pure function or an explicitly owned
// state value, so the same math drives both the WGSL shaders and the CPU
// fallback renderer.
//
// # Quick Start
//
//	adj := pict.ColorAdjustment{Hue: 90, Contrast: 25}
//	out := pict.Apply(px, adj)                          // linear-light result
//	bg := pict.TransparencyMatte.Sample(x, y, h)        // checker behind it
//	final := pict.CompositeOver(out, bg)                // display pixel
//
// # Concurrency
//
// Apply, Sample, CompositeOver and OverlaySample are stateless and safe
// to call concurrently across arbitrary pixel partitions. CropSelection
// is owned by the input-handling goroutine; the render path reads an
// immutable Snapshot taken at the start of each frame.
package pict
