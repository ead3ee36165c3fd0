// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pict"
)

// matteUniformSize is the byte size of the checker uniform block shared
// by the background pass and the image pass. std140 layout:
//
//	color_a  vec4<f32> offset  0
//	color_b  vec4<f32> offset 16
//	viewport vec2<f32> offset 32
//	cell     f32       offset 40
//	(pad)    f32       offset 44
const matteUniformSize = 48

// packMatteUniform serializes a checker spec and the viewport size into
// the matte uniform layout.
func packMatteUniform(spec pict.CheckerSpec, viewport pict.Vec2) []byte {
	buf := make([]byte, matteUniformSize)
	putColor(buf, 0, spec.ColorA)
	putColor(buf, 16, spec.ColorB)
	putF32(buf, 32, float32(viewport.X))
	putF32(buf, 36, float32(viewport.Y))
	putF32(buf, 40, float32(spec.CellSize))
	return buf
}

// packQuadIndices serializes the shared quad index pattern as 16-bit
// indices for the GPU index buffer.
func packQuadIndices() []byte {
	buf := make([]byte, len(pict.QuadIndices)*2)
	for i, idx := range pict.QuadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(idx))
	}
	return buf
}

func putColor(buf []byte, off int, c pict.RGBA) {
	putF32(buf, off, float32(c.R))
	putF32(buf, off+4, float32(c.G))
	putF32(buf, off+8, float32(c.B))
	putF32(buf, off+12, float32(c.A))
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
