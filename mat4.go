package pict

// Mat4 is a 4x4 float32 matrix in column-major order, matching the WGSL
// mat4x4<f32> memory layout the image vertex shader consumes. Element
// (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Ortho returns an orthographic projection mapping the box
// [left,right]x[bottom,top] onto clip space, with z collapsed to the
// [-1,1] slab at near=-1, far=1. This is the projection the image quad
// uses: canvas pixels in, normalized device coordinates out.
func Mat4Ortho(left, right, bottom, top float32) Mat4 {
	rl := right - left
	tb := top - bottom
	return Mat4{
		2 / rl, 0, 0, 0,
		0, 2 / tb, 0, 0,
		0, 0, -1, 0,
		-(right + left) / rl, -(top + bottom) / tb, 0, 1,
	}
}

// Mat4Translate returns a translation matrix.
func Mat4Translate(x, y float32) Mat4 {
	m := Mat4Identity()
	m[12] = x
	m[13] = y
	return m
}

// Mat4Scale returns a scaling matrix.
func Mat4Scale(x, y float32) Mat4 {
	m := Mat4Identity()
	m[0] = x
	m[5] = y
	return m
}

// Mul returns the matrix product m * other, so transforms compose right
// to left: (projection.Mul(model)) applies model first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * other[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to a 2D point (z=0, w=1) and returns
// the transformed x, y after perspective division.
func (m Mat4) TransformPoint(x, y float32) (float32, float32) {
	ox := m[0]*x + m[4]*y + m[12]
	oy := m[1]*x + m[5]*y + m[13]
	w := m[3]*x + m[7]*y + m[15]
	if w != 0 && w != 1 {
		ox /= w
		oy /= w
	}
	return ox, oy
}

// ImageTransform positions the image quad on the canvas. The matrix
// applies to vertex positions; the flips apply to texture coordinates.
// Neither touches pixel color.
type ImageTransform struct {
	Matrix         Mat4
	FlipHorizontal bool
	FlipVertical   bool
}

// IdentityTransform returns the transform that draws the quad as-is.
func IdentityTransform() ImageTransform {
	return ImageTransform{Matrix: Mat4Identity()}
}
