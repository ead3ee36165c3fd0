package pict

// CompositeOver blends an adjusted foreground pixel over an opaque matte
// sample and returns the final display pixel (alpha fixed at 1).
//
// The foreground is expected in linear light, as produced by Apply; the
// matte sample is display-encoded, as authored in CheckerSpec. The matte
// is linearized for the blend and the display gamma encode runs here,
// once, on the composited result. Consequences:
//   - a fully transparent pixel shows the matte color exactly
//     (decode then encode round-trips it), and
//   - a fully opaque pixel gets the pipeline output encoded exactly
//     once, never twice.
func CompositeOver(fg RGBA, matte RGBA) RGBA {
	inv := 1 - fg.A
	return RGBA{
		R: GammaEncode(GammaDecode(matte.R)*inv + fg.A*fg.R),
		G: GammaEncode(GammaDecode(matte.G)*inv + fg.A*fg.G),
		B: GammaEncode(GammaDecode(matte.B)*inv + fg.A*fg.B),
		A: 1,
	}
}

// Over applies the Porter-Duff "over" operator, blending top onto base.
// Both inputs are straight (non-premultiplied) alpha, in display space.
// The crop overlay stack uses this to darken the selection exterior and
// to draw guides and handles on top of the composited frame.
func Over(base, top RGBA) RGBA {
	return RGBA{
		R: base.R*(1-top.A) + top.A*top.R,
		G: base.G*(1-top.A) + top.A*top.G,
		B: base.B*(1-top.A) + top.A*top.B,
		A: base.A + top.A*(1-base.A),
	}
}
