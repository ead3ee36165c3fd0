package pict

import (
	"encoding/binary"
	"math"
)

// ImageUniformSize is the byte size of the packed image uniform block.
// std140 layout:
//
//	matrix     mat4x4<f32>  offset   0, 64 bytes
//	size       vec2<f32>    offset  64
//	hue        f32          offset  72
//	contrast   f32          offset  76
//	brightness f32          offset  80
//	saturation f32          offset  84
//	grayscale  u32          offset  88
//	invert     u32          offset  92
const ImageUniformSize = 96

// CropUniformSize is the byte size of the packed crop uniform block.
// std140 layout:
//
//	start vec2<f32> offset  0
//	end   vec2<f32> offset  8
//	size  vec2<f32> offset 16
//	(pad) vec2<f32> offset 24
const CropUniformSize = 32

// ImageUniform is the per-draw parameter block for the image quad,
// mirroring the GPU uniform layout field for field. The host render
// collaborator packs it into a GPU-resident buffer every frame; no
// hidden global uniform state exists.
type ImageUniform struct {
	Matrix     Mat4
	Size       [2]float32 // viewport size in pixels
	Hue        float32
	Contrast   float32
	Brightness float32
	Saturation float32
	Grayscale  uint32 // 0 or 1; bools are u32 in the uniform block
	Invert     uint32
}

// NewImageUniform assembles the uniform block from a transform, the
// viewport size, and the current (clamped) adjustment snapshot.
func NewImageUniform(t ImageTransform, viewport Vec2, adj ColorAdjustment) ImageUniform {
	u := ImageUniform{
		Matrix:     t.Matrix,
		Size:       [2]float32{float32(viewport.X), float32(viewport.Y)},
		Hue:        float32(adj.Hue),
		Contrast:   float32(adj.Contrast),
		Brightness: float32(adj.Brightness),
		Saturation: float32(adj.Saturation),
	}
	if adj.Grayscale {
		u.Grayscale = 1
	}
	if adj.Invert {
		u.Invert = 1
	}
	return u
}

// Pack serializes the uniform into its std140 byte layout.
func (u ImageUniform) Pack() []byte {
	buf := make([]byte, ImageUniformSize)
	for i, v := range u.Matrix {
		putF32(buf, i*4, v)
	}
	putF32(buf, 64, u.Size[0])
	putF32(buf, 68, u.Size[1])
	putF32(buf, 72, u.Hue)
	putF32(buf, 76, u.Contrast)
	putF32(buf, 80, u.Brightness)
	putF32(buf, 84, u.Saturation)
	binary.LittleEndian.PutUint32(buf[88:], u.Grayscale)
	binary.LittleEndian.PutUint32(buf[92:], u.Invert)
	return buf
}

// CropUniform is the per-draw parameter block for the crop overlay pass:
// the selection corners and the viewport size, all in canvas pixels.
type CropUniform struct {
	Start [2]float32
	End   [2]float32
	Size  [2]float32
}

// NewCropUniform derives the crop uniform from a frame snapshot. The
// rect is normalized, so Start is always the componentwise minimum.
func NewCropUniform(snap CropSnapshot, viewport Vec2) CropUniform {
	n := snap.Rect.Normalized()
	return CropUniform{
		Start: [2]float32{float32(n.Start.X), float32(n.Start.Y)},
		End:   [2]float32{float32(n.End.X), float32(n.End.Y)},
		Size:  [2]float32{float32(viewport.X), float32(viewport.Y)},
	}
}

// Pack serializes the uniform into its std140 byte layout.
func (u CropUniform) Pack() []byte {
	buf := make([]byte, CropUniformSize)
	putF32(buf, 0, u.Start[0])
	putF32(buf, 4, u.Start[1])
	putF32(buf, 8, u.End[0])
	putF32(buf, 12, u.End[1])
	putF32(buf, 16, u.Size[0])
	putF32(buf, 20, u.Size[1])
	return buf
}

// VertexStride is the byte stride of one quad vertex:
// position (vec2<f32>) + texture coordinate (vec2<f32>).
const VertexStride = 16

// Vertex is one corner of the textured image quad.
type Vertex struct {
	Position [2]float32
	TexCoord [2]float32
}

// QuadIndices is the two-triangle index pattern shared by every quad.
var QuadIndices = [6]uint32{0, 1, 2, 2, 1, 3}

// QuadVertices builds the four vertices of an image quad covering
// [0,w]x[0,h], in the order top-left, bottom-left, top-right,
// bottom-right (matching QuadIndices). The flips mirror the texture
// coordinates, not the positions, so the quad keeps its place on the
// canvas while the image flips inside it.
func QuadVertices(w, h float32, flipH, flipV bool) [4]Vertex {
	u0, u1 := float32(0), float32(1)
	v0, v1 := float32(0), float32(1)
	if flipH {
		u0, u1 = u1, u0
	}
	if flipV {
		v0, v1 = v1, v0
	}
	return [4]Vertex{
		{Position: [2]float32{0, 0}, TexCoord: [2]float32{u0, v0}},
		{Position: [2]float32{0, h}, TexCoord: [2]float32{u0, v1}},
		{Position: [2]float32{w, 0}, TexCoord: [2]float32{u1, v0}},
		{Position: [2]float32{w, h}, TexCoord: [2]float32{u1, v1}},
	}
}

// PackVertices serializes quad vertices into interleaved float32 bytes
// for upload into a GPU vertex buffer.
func PackVertices(verts []Vertex) []byte {
	buf := make([]byte, len(verts)*VertexStride)
	for i, v := range verts {
		off := i * VertexStride
		putF32(buf, off, v.Position[0])
		putF32(buf, off+4, v.Position[1])
		putF32(buf, off+8, v.TexCoord[0])
		putF32(buf, off+12, v.TexCoord[1])
	}
	return buf
}

// putF32 writes a little-endian float32 at the given offset.
func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}
