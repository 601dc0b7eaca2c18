package gpu

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shader.wgsl
var shaderSource string

// Pipeline bundles the render pipeline with the uniform buffer and bind
// group feeding it. Built once at startup; only the buffer contents change
// afterwards.
type Pipeline struct {
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
	uniforms  *wgpu.Buffer
}

// BuildPipeline compiles the fractal shader and assembles the fullscreen
// pipeline targeting format. initial seeds the uniform buffer so the first
// frame already renders the starting viewport.
func BuildPipeline(device *wgpu.Device, format wgpu.TextureFormat, initial Uniforms) (*Pipeline, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "mandelbrot shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	defer shader.Release()

	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "viewport uniforms",
		Contents: initial.Marshal(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create uniform buffer: %w", err)
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "viewport bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		}},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	defer bgl.Release()

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "viewport bind group",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("gpu: create bind group: %w", err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "fractal pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		bg.Release()
		buf.Release()
		return nil, fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	defer layout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "fractal pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		bg.Release()
		buf.Release()
		return nil, fmt.Errorf("gpu: create render pipeline: %w", err)
	}

	return &Pipeline{pipeline: pipeline, bindGroup: bg, uniforms: buf}, nil
}

// RenderPipeline returns the compiled pipeline.
func (p *Pipeline) RenderPipeline() *wgpu.RenderPipeline { return p.pipeline }

// BindGroup returns the bind group for slot 0.
func (p *Pipeline) BindGroup() *wgpu.BindGroup { return p.bindGroup }

// UniformBuffer returns the buffer UniformSync writes into.
func (p *Pipeline) UniformBuffer() *wgpu.Buffer { return p.uniforms }

// Release frees the pipeline's GPU objects.
func (p *Pipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.uniforms != nil {
		p.uniforms.Release()
		p.uniforms = nil
	}
}
