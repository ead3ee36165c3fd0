// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pict"
)

// backgroundPipeline clears the canvas with the bottom-anchored checker.
// It draws one fullscreen triangle and needs no vertex buffer.
type backgroundPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

type backgroundFrameResources struct {
	matteBuf  hal.Buffer
	bindGroup hal.BindGroup
}

func newBackgroundPipeline(device hal.Device, queue hal.Queue) *backgroundPipeline {
	return &backgroundPipeline{device: device, queue: queue}
}

func (p *backgroundPipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}

	shader, err := compileShader(p.device, "pict_background_shader", backgroundShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pict_background_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create background bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "pict_background_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create background pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "pict_background_pipeline",
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
		return fmt.Errorf("create background pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

func (p *backgroundPipeline) prepare(spec pict.CheckerSpec, viewport pict.Vec2) (*backgroundFrameResources, error) {
	matteBuf, err := createAndUploadBuffer(p.device, p.queue, "pict_background_matte",
		packMatteUniform(spec, viewport),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "pict_background_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: matteBuf.NativeHandle(), Offset: 0, Size: matteUniformSize,
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(matteBuf)
		return nil, fmt.Errorf("create background bind group: %w", err)
	}

	return &backgroundFrameResources{matteBuf: matteBuf, bindGroup: bindGroup}, nil
}

func (p *backgroundPipeline) recordDraws(rp hal.RenderPassEncoder, res *backgroundFrameResources) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
}

func (p *backgroundPipeline) destroyFrame(res *backgroundFrameResources) {
	if res == nil {
		return
	}
	p.device.DestroyBindGroup(res.bindGroup)
	p.device.DestroyBuffer(res.matteBuf)
}

func (p *backgroundPipeline) destroy() {
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
