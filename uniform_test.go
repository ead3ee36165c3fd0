package pict

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestImageUniform_Pack(t *testing.T) {
	adj := ColorAdjustment{
		Hue:        90,
		Contrast:   -25,
		Brightness: 10,
		Saturation: 55,
		Grayscale:  true,
	}
	u := NewImageUniform(IdentityTransform(), V2(1024, 768), adj)
	buf := u.Pack()

	if len(buf) != ImageUniformSize {
		t.Fatalf("packed size = %d, want %d", len(buf), ImageUniformSize)
	}
	// Identity matrix diagonal at column-major indices 0, 5, 10, 15.
	for _, i := range []int{0, 5, 10, 15} {
		if got := f32At(buf, i*4); got != 1 {
			t.Errorf("matrix[%d] = %v, want 1", i, got)
		}
	}
	if got := f32At(buf, 64); got != 1024 {
		t.Errorf("size.x = %v, want 1024", got)
	}
	if got := f32At(buf, 68); got != 768 {
		t.Errorf("size.y = %v, want 768", got)
	}
	if got := f32At(buf, 72); got != 90 {
		t.Errorf("hue = %v, want 90", got)
	}
	if got := f32At(buf, 76); got != -25 {
		t.Errorf("contrast = %v, want -25", got)
	}
	if got := binary.LittleEndian.Uint32(buf[88:]); got != 1 {
		t.Errorf("grayscale = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(buf[92:]); got != 0 {
		t.Errorf("invert = %d, want 0", got)
	}
}

func TestCropUniform_PackNormalizes(t *testing.T) {
	snap := CropSnapshot{
		Active: true,
		Rect:   RectFromCorners(V2(50, 100), V2(10, 20)),
	}
	u := NewCropUniform(snap, V2(640, 480))
	if u.Start != [2]float32{10, 20} || u.End != [2]float32{50, 100} {
		t.Errorf("crop uniform corners = %v/%v, want normalized", u.Start, u.End)
	}

	buf := u.Pack()
	if len(buf) != CropUniformSize {
		t.Fatalf("packed size = %d, want %d", len(buf), CropUniformSize)
	}
	if f32At(buf, 0) != 10 || f32At(buf, 12) != 100 {
		t.Errorf("packed corners wrong: start.x=%v end.y=%v", f32At(buf, 0), f32At(buf, 12))
	}
	if f32At(buf, 16) != 640 || f32At(buf, 20) != 480 {
		t.Errorf("packed viewport wrong: %v x %v", f32At(buf, 16), f32At(buf, 20))
	}
}

func TestQuadVertices_Flips(t *testing.T) {
	plain := QuadVertices(100, 50, false, false)
	if plain[0].TexCoord != [2]float32{0, 0} || plain[3].TexCoord != [2]float32{1, 1} {
		t.Errorf("unflipped texcoords wrong: %v", plain)
	}

	h := QuadVertices(100, 50, true, false)
	if h[0].TexCoord != [2]float32{1, 0} || h[2].TexCoord != [2]float32{0, 0} {
		t.Errorf("horizontal flip texcoords wrong: %v", h)
	}

	v := QuadVertices(100, 50, false, true)
	if v[0].TexCoord != [2]float32{0, 1} || v[1].TexCoord != [2]float32{0, 0} {
		t.Errorf("vertical flip texcoords wrong: %v", v)
	}

	// Positions never flip; the quad stays put on the canvas.
	for i := range plain {
		if h[i].Position != plain[i].Position || v[i].Position != plain[i].Position {
			t.Fatal("flip moved vertex positions")
		}
	}
}

func TestPackVertices(t *testing.T) {
	verts := QuadVertices(2, 3, false, false)
	buf := PackVertices(verts[:])
	if len(buf) != 4*VertexStride {
		t.Fatalf("packed size = %d, want %d", len(buf), 4*VertexStride)
	}
	// Last vertex: position (2,3), texcoord (1,1).
	off := 3 * VertexStride
	if f32At(buf, off) != 2 || f32At(buf, off+4) != 3 ||
		f32At(buf, off+8) != 1 || f32At(buf, off+12) != 1 {
		t.Errorf("last vertex packed wrong: % x", buf[off:])
	}
}
