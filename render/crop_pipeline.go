// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pict"
)

// cropPipeline draws the crop selection overlay as a fullscreen pass
// blended over the composited frame with premultiplied alpha.
type cropPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

type cropFrameResources struct {
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
}

func newCropPipeline(device hal.Device, queue hal.Queue) *cropPipeline {
	return &cropPipeline{device: device, queue: queue}
}

func (p *cropPipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}

	shader, err := compileShader(p.device, "pict_crop_shader", cropShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pict_crop_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create crop bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "pict_crop_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create crop pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "pict_crop_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create crop pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

func (p *cropPipeline) prepare(snap pict.CropSnapshot, viewport pict.Vec2) (*cropFrameResources, error) {
	uniform := pict.NewCropUniform(snap, viewport)
	uniformBuf, err := createAndUploadBuffer(p.device, p.queue, "pict_crop_uniform",
		uniform.Pack(), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "pict_crop_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: pict.CropUniformSize,
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(uniformBuf)
		return nil, fmt.Errorf("create crop bind group: %w", err)
	}

	return &cropFrameResources{uniformBuf: uniformBuf, bindGroup: bindGroup}, nil
}

func (p *cropPipeline) recordDraws(rp hal.RenderPassEncoder, res *cropFrameResources) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
}

func (p *cropPipeline) destroyFrame(res *cropFrameResources) {
	if res == nil {
		return
	}
	p.device.DestroyBindGroup(res.bindGroup)
	p.device.DestroyBuffer(res.uniformBuf)
}

func (p *cropPipeline) destroy() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
