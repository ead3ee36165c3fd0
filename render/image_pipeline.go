// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pict"
)

// imagePipeline draws the textured image quad. The fragment shader runs
// the color adjustment chain and composites against the transparency
// checker, so the pass output is already opaque display-encoded color.
//
// Bind group layout:
//
//	Binding 0: ImageUniforms (uniform buffer, vertex+fragment)
//	Binding 1: image texture (texture_2d, fragment)
//	Binding 2: sampler (fragment)
//	Binding 3: MatteUniforms (uniform buffer, fragment)
type imagePipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	tex        hal.Texture
	texView    hal.TextureView
	texW, texH uint32
}

// imageFrameResources holds the per-frame GPU resources for one image
// quad draw.
type imageFrameResources struct {
	vertBuf    hal.Buffer
	idxBuf     hal.Buffer
	uniformBuf hal.Buffer
	matteBuf   hal.Buffer
	bindGroup  hal.BindGroup
	indexCount uint32
}

func newImagePipeline(device hal.Device, queue hal.Queue) *imagePipeline {
	return &imagePipeline{device: device, queue: queue}
}

// ensurePipeline compiles the shader and creates the pipeline objects
// on first use.
func (p *imagePipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}

	shader, err := compileShader(p.device, "pict_image_shader", imageShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pict_image_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create image bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "pict_image_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create image pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "pict_image_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create image sampler: %w", err)
	}
	p.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "pict_image_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
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
		return fmt.Errorf("create image pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

// setImage uploads the decoded image into the pipeline texture,
// recreating the texture when the dimensions change.
func (p *imagePipeline) setImage(img *image.NRGBA) error {
	b := img.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image dimensions fit uint32
	if w == 0 || h == 0 {
		return fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}

	if p.tex == nil || p.texW != w || p.texH != h {
		p.destroyTexture()

		tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
			Label:         "pict_image_texture",
			Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create image texture: %w", err)
		}
		p.tex = tex

		view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         "pict_image_texture_view",
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			p.destroyTexture()
			return fmt.Errorf("create image texture view: %w", err)
		}
		p.texView = view
		p.texW, p.texH = w, h
	}

	p.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: p.tex, MipLevel: 0},
		tightPixels(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}

// prepare builds the per-frame buffers and bind group for one draw.
func (p *imagePipeline) prepare(params FrameParams) (*imageFrameResources, error) {
	verts := pict.QuadVertices(float32(p.texW), float32(p.texH),
		params.Transform.FlipHorizontal, params.Transform.FlipVertical)

	vertBuf, err := createAndUploadBuffer(p.device, p.queue, "pict_image_verts",
		pict.PackVertices(verts[:]), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	idxBuf, err := createAndUploadBuffer(p.device, p.queue, "pict_image_indices",
		packQuadIndices(), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		p.device.DestroyBuffer(vertBuf)
		return nil, err
	}

	uniform := pict.NewImageUniform(params.Transform, params.Viewport, params.State.Adjust.Clamped())
	uniformBuf, err := createAndUploadBuffer(p.device, p.queue, "pict_image_uniform",
		uniform.Pack(), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		p.device.DestroyBuffer(idxBuf)
		p.device.DestroyBuffer(vertBuf)
		return nil, err
	}

	matteBuf, err := createAndUploadBuffer(p.device, p.queue, "pict_image_matte",
		packMatteUniform(params.State.Matte, params.Viewport),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		p.device.DestroyBuffer(uniformBuf)
		p.device.DestroyBuffer(idxBuf)
		p.device.DestroyBuffer(vertBuf)
		return nil, err
	}

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "pict_image_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: pict.ImageUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: p.texView.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
			{Binding: 3, Resource: gputypes.BufferBinding{
				Buffer: matteBuf.NativeHandle(), Offset: 0, Size: matteUniformSize,
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(matteBuf)
		p.device.DestroyBuffer(uniformBuf)
		p.device.DestroyBuffer(idxBuf)
		p.device.DestroyBuffer(vertBuf)
		return nil, fmt.Errorf("create image bind group: %w", err)
	}

	return &imageFrameResources{
		vertBuf:    vertBuf,
		idxBuf:     idxBuf,
		uniformBuf: uniformBuf,
		matteBuf:   matteBuf,
		bindGroup:  bindGroup,
		indexCount: uint32(len(pict.QuadIndices)),
	}, nil
}

// recordDraws records the image quad draw into an existing render pass.
func (p *imagePipeline) recordDraws(rp hal.RenderPassEncoder, res *imageFrameResources) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.SetVertexBuffer(0, res.vertBuf, 0)
	rp.SetIndexBuffer(res.idxBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(res.indexCount, 1, 0, 0, 0)
}

// destroyFrame releases the per-frame resources after submission.
func (p *imagePipeline) destroyFrame(res *imageFrameResources) {
	if res == nil {
		return
	}
	p.device.DestroyBindGroup(res.bindGroup)
	p.device.DestroyBuffer(res.matteBuf)
	p.device.DestroyBuffer(res.uniformBuf)
	p.device.DestroyBuffer(res.idxBuf)
	p.device.DestroyBuffer(res.vertBuf)
}

func (p *imagePipeline) destroyTexture() {
	if p.texView != nil {
		p.device.DestroyTextureView(p.texView)
		p.texView = nil
	}
	if p.tex != nil {
		p.device.DestroyTexture(p.tex)
		p.tex = nil
	}
	p.texW, p.texH = 0, 0
}

// destroy releases all pipeline resources in reverse creation order.
func (p *imagePipeline) destroy() {
	p.destroyTexture()
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
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

// quadVertexLayout returns the vertex buffer layout for the image quad.
// Matches VertexInput in image.wgsl:
//
//	location 0: position (vec2<f32>)
//	location 1: tex_coords (vec2<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: pict.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coords
			},
		},
	}
}

// tightPixels returns the image pixels with rows packed end to end,
// copying only when the source stride carries padding.
func tightPixels(img *image.NRGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == w*4 && b.Min == (image.Point{}) {
		return img.Pix
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*w*4:], img.Pix[i:i+w*4])
	}
	return out
}
