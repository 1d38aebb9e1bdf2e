package tracer

import (
	"fmt"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// ComputePipelineKey identifies the raytracing compute pipeline in the renderer cache.
	ComputePipelineKey = "raytracer"

	// ScreenPipelineKey identifies the full-screen blit pipeline in the renderer cache.
	ScreenPipelineKey = "screen"
)

// ResourceBundle owns every size-dependent GPU resource for one output
// resolution: the storage texture the kernel writes, the per-frame uniform and
// sphere buffers, the row-padded accumulation buffer, and the bind groups for
// both pipelines. Bundles are immutable after construction; a resolution change
// builds a new bundle and releases the old one.
type ResourceBundle struct {
	dims BufferDimensions

	colorTexture *wgpu.Texture
	colorView    *wgpu.TextureView

	sceneInfoBuffer *wgpu.Buffer
	sphereBuffer    *wgpu.Buffer
	accumBuffer     *wgpu.Buffer

	sampler *wgpu.Sampler

	computeBindGroup *wgpu.BindGroup
	screenBindGroup  *wgpu.BindGroup
}

// Dimensions returns the bundle's fixed output layout.
//
// Returns:
//   - BufferDimensions: width, height, and row padding of the bundle
func (b *ResourceBundle) Dimensions() BufferDimensions {
	return b.dims
}

// Release frees all GPU resources owned by the bundle. The bundle must not be
// referenced by any in-flight frame or export when this is called.
func (b *ResourceBundle) Release() {
	if b.screenBindGroup != nil {
		b.screenBindGroup.Release()
	}
	if b.computeBindGroup != nil {
		b.computeBindGroup.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.accumBuffer != nil {
		b.accumBuffer.Release()
	}
	if b.sphereBuffer != nil {
		b.sphereBuffer.Release()
	}
	if b.sceneInfoBuffer != nil {
		b.sceneInfoBuffer.Release()
	}
	if b.colorView != nil {
		b.colorView.Release()
	}
	if b.colorTexture != nil {
		b.colorTexture.Release()
	}
}

// pipelineFactory is the implementation of the PipelineFactory interface.
type pipelineFactory struct {
	renderer renderer.Renderer
}

// PipelineFactory builds the two size-independent pipelines once and
// constructs size-dependent ResourceBundles against them.
type PipelineFactory interface {
	// RegisterPipelines creates the raytracing compute pipeline and the screen
	// render pipeline with their explicit bind group layouts, and caches them on
	// the renderer. Safe to call more than once; already-registered keys are skipped.
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines() error

	// BuildBundle allocates the full set of size-dependent resources for the
	// given output resolution. RegisterPipelines must have succeeded first.
	//
	// Parameters:
	//   - width: output width in texels
	//   - height: output height in texels
	//
	// Returns:
	//   - *ResourceBundle: the freshly allocated bundle
	//   - error: an error if any GPU allocation fails
	BuildBundle(width, height uint32) (*ResourceBundle, error)
}

var _ PipelineFactory = &pipelineFactory{}

// NewPipelineFactory creates a PipelineFactory targeting the given renderer.
//
// Parameters:
//   - r: the renderer providing the device, queue, and pipeline cache
//
// Returns:
//   - PipelineFactory: the factory
func NewPipelineFactory(r renderer.Renderer) PipelineFactory {
	return &pipelineFactory{renderer: r}
}

// computeBindGroupLayout declares the kernel's resource interface:
// binding 0 write-only RGBA16Float storage texture, binding 1 SceneInfo
// uniform, binding 2 sphere storage buffer, binding 3 accumulation storage
// buffer. Must stay in sync with assets/raytracer_kernel.wgsl.
func computeBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Raytracer Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        wgpu.StorageTextureAccessWriteOnly,
					Format:        wgpu.TextureFormatRGBA16Float,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: SceneInfoByteSize,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeStorage,
					MinBindingSize: MaxSpheres * SphereByteSize,
				},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeStorage,
				},
			},
		},
	}
}

// screenBindGroupLayout declares the blit's resource interface: binding 0
// filtering sampler, binding 1 sampled texture view. Must stay in sync with
// assets/screen_shader.wgsl.
func screenBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Screen Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	}
}

// screenSamplerConfig returns the blit sampler configuration: nearest
// filtering on all axes so accumulation texels reach the screen unfiltered,
// with coordinates clamped at the edges.
func screenSamplerConfig() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
}

func (f *pipelineFactory) RegisterPipelines() error {
	kernel := shader.NewShader("raytracer_kernel", shader.ShaderTypeCompute, KernelSource)
	screenVert := shader.NewShader("screen_shader", shader.ShaderTypeVertex, ScreenSource)
	screenFrag := shader.NewShader("screen_shader", shader.ShaderTypeFragment, ScreenSource)

	compute := pipeline.NewPipeline(ComputePipelineKey, pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(kernel),
		pipeline.WithBindGroupLayoutDescriptors(computeBindGroupLayout()),
	)

	// The quad covers the whole viewport, so no blending, no culling, no depth.
	screen := pipeline.NewPipeline(ScreenPipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(screenVert),
		pipeline.WithFragmentShader(screenFrag),
		pipeline.WithBindGroupLayoutDescriptors(screenBindGroupLayout()),
	)

	if err := f.renderer.RegisterPipelines(compute, screen); err != nil {
		return fmt.Errorf("failed to register tracer pipelines: %w", err)
	}
	return nil
}

func (f *pipelineFactory) BuildBundle(width, height uint32) (*ResourceBundle, error) {
	computePipeline := f.renderer.Pipeline(ComputePipelineKey)
	screenPipeline := f.renderer.Pipeline(ScreenPipelineKey)
	if computePipeline == nil || screenPipeline == nil {
		return nil, fmt.Errorf("tracer pipelines not registered")
	}

	device := f.renderer.Device()
	dims := NewBufferDimensions(width, height)
	b := &ResourceBundle{dims: dims}

	// On any failure, release whatever was allocated so far.
	fail := func(err error) (*ResourceBundle, error) {
		b.Release()
		return nil, err
	}

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Raytracer Color Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA16Float,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create color texture: %w", err))
	}
	b.colorTexture = tex

	view, err := tex.CreateView(nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create color texture view: %w", err))
	}
	b.colorView = view

	b.sceneInfoBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "SceneInfo Buffer",
		Size:  SceneInfoByteSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create scene info buffer: %w", err))
	}

	b.sphereBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Sphere Buffer",
		Size:  MaxSpheres * SphereByteSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create sphere buffer: %w", err))
	}

	b.accumBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Accumulation Buffer",
		Size:  dims.BufferSize(),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create accumulation buffer: %w", err))
	}

	b.computeBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Raytracer Bind Group",
		Layout: computePipeline.BindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: b.colorView,
			},
			{
				Binding: 1,
				Buffer:  b.sceneInfoBuffer,
				Size:    wgpu.WholeSize,
			},
			{
				Binding: 2,
				Buffer:  b.sphereBuffer,
				Size:    wgpu.WholeSize,
			},
			{
				Binding: 3,
				Buffer:  b.accumBuffer,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create compute bind group: %w", err))
	}

	b.sampler, err = f.renderer.CreateSampler(screenSamplerConfig())
	if err != nil {
		return fail(fmt.Errorf("failed to create screen sampler: %w", err))
	}

	b.screenBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Screen Bind Group",
		Layout: screenPipeline.BindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Sampler: b.sampler,
			},
			{
				Binding:     1,
				TextureView: b.colorView,
			},
		},
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create screen bind group: %w", err))
	}

	log().Debug("built resource bundle",
		"width", width, "height", height,
		"paddedBytesPerRow", dims.PaddedBytesPerRow)

	return b, nil
}
