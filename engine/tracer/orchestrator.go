package tracer

import (
	"fmt"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// frameOrchestrator is the implementation of the FrameOrchestrator interface.
type frameOrchestrator struct {
	renderer renderer.Renderer
	factory  PipelineFactory
	slot     *ResourceSlot
	uploader SceneUploader

	aspect     float32
	frameCount uint32
}

// FrameOrchestrator drives one displayed frame end to end: it fits the render
// target into the available area, rebuilds the resource bundle when the fitted
// pixel size changes, uploads the frame's scene data, records the compute
// dispatch, the texture-to-buffer copy, and the screen blit into a single
// command encoder, and submits once.
type FrameOrchestrator interface {
	// Slot returns the orchestrator's resource slot. Shared with the exporter.
	//
	// Returns:
	//   - *ResourceSlot: the slot holding the live bundle
	Slot() *ResourceSlot

	// FrameCount returns the number of frames accumulated since the last
	// bundle rebuild.
	//
	// Returns:
	//   - uint32: the current frame counter
	FrameCount() uint32

	// RenderFrame renders one frame into the fitted sub-rectangle of the
	// surface at the given origin. If the fitted size is below one pixel in
	// either dimension, the frame is skipped without touching the GPU and the
	// previously presented image remains on screen. The factory's pipelines
	// must be registered before the first call.
	//
	// Parameters:
	//   - originX, originY: top-left corner of the available area, in pixels
	//   - availWidth, availHeight: the available area, in pixels
	//
	// Returns:
	//   - error: an error if pipelines are missing, bundle construction fails,
	//     or frame submission fails
	RenderFrame(originX, originY, availWidth, availHeight float32) error
}

var _ FrameOrchestrator = &frameOrchestrator{}

// NewFrameOrchestrator creates a FrameOrchestrator with the specified options.
//
// Parameters:
//   - r: the renderer providing the frame protocol and pipeline cache
//   - factory: the factory building size-dependent resource bundles
//   - slot: the slot holding the live bundle
//   - uploader: the per-frame scene uploader
//   - options: functional options to configure the orchestrator
//
// Returns:
//   - FrameOrchestrator: the configured orchestrator
func NewFrameOrchestrator(r renderer.Renderer, factory PipelineFactory, slot *ResourceSlot, uploader SceneUploader, options ...FrameOrchestratorOption) FrameOrchestrator {
	o := &frameOrchestrator{
		renderer: r,
		factory:  factory,
		slot:     slot,
		uploader: uploader,
		aspect:   1.5,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// FrameOrchestratorOption is a functional option for configuring a frameOrchestrator.
type FrameOrchestratorOption func(*frameOrchestrator)

// WithAspectRatio sets the width/height ratio the render target keeps while
// being fitted into the available area.
//
// Parameters:
//   - aspect: the width/height ratio, must be positive
//
// Returns:
//   - FrameOrchestratorOption: option function to apply
func WithAspectRatio(aspect float32) FrameOrchestratorOption {
	return func(o *frameOrchestrator) {
		if aspect > 0 {
			o.aspect = aspect
		}
	}
}

// FitViewport fits a rectangle of the given aspect ratio into the available
// area: full width when the implied height fits, otherwise full height.
//
// Parameters:
//   - availWidth, availHeight: the available area in pixels
//   - aspect: the width/height ratio to preserve
//
// Returns:
//   - common.Vec2: the fitted size in pixels
func FitViewport(availWidth, availHeight, aspect float32) common.Vec2 {
	fitToWidth := common.Vec2{X: availWidth, Y: availWidth / aspect}
	if fitToWidth.Y > availHeight {
		return common.Vec2{X: availHeight * aspect, Y: availHeight}
	}
	return fitToWidth
}

// planFrame computes the fitted render size for a frame and whether the
// frame's tracer work must be skipped because the target is degenerate.
func planFrame(availWidth, availHeight, aspect float32) (fitted common.Vec2, skip bool) {
	fitted = FitViewport(availWidth, availHeight, aspect)
	skip = fitted.X < 1 || fitted.Y < 1
	return fitted, skip
}

// advanceFrame increments the per-bundle frame counter. Called only once the
// frame's surface has been acquired, so the counter moves exactly once per
// displayed frame and the first frame against a fresh bundle is 1.
func (o *frameOrchestrator) advanceFrame() uint32 {
	o.frameCount++
	return o.frameCount
}

func (o *frameOrchestrator) Slot() *ResourceSlot {
	return o.slot
}

func (o *frameOrchestrator) FrameCount() uint32 {
	return o.frameCount
}

func (o *frameOrchestrator) RenderFrame(originX, originY, availWidth, availHeight float32) error {
	fitted, skip := planFrame(availWidth, availHeight, o.aspect)
	if skip {
		// Degenerate target: skip the frame without touching the GPU, so the
		// previously presented image stays on screen and the accumulation is
		// untouched. Event polling continues regardless.
		return nil
	}

	computeEntry := o.renderer.Pipeline(ComputePipelineKey)
	screenEntry := o.renderer.Pipeline(ScreenPipelineKey)
	if computeEntry == nil || screenEntry == nil {
		return fmt.Errorf("tracer pipelines not registered")
	}

	width := uint32(math32.Floor(fitted.X))
	height := uint32(math32.Floor(fitted.Y))

	// Bundle replacement happens strictly between frames: the old bundle is
	// discarded before any of this frame's work is recorded.
	bundle := o.slot.Load()
	if bundle == nil || bundle.dims.Width != width || bundle.dims.Height != height {
		next, err := o.factory.BuildBundle(width, height)
		if err != nil {
			return fmt.Errorf("failed to rebuild resources for %dx%d: %w", width, height, err)
		}
		old := o.slot.Install(next)
		o.slot.Discard(old)
		bundle = next
		// Accumulation restarts against the fresh bundle. The counter is not
		// advanced here; if surface acquisition fails below, no frame was
		// displayed and the next successful frame must still be 1.
		o.frameCount = 0
		log().Info("resized render target", "width", width, "height", height)
	}

	if err := o.renderer.BeginFrame(); err != nil {
		return err
	}

	// The surface is acquired, so this frame will be displayed: advance the
	// counter and fix the snapshot before any GPU work is recorded.
	info := o.uploader.Snapshot(o.advanceFrame())

	// Queue writes are ordered before the dispatch in the same submission.
	o.uploader.Upload(bundle, info)

	encoder := o.renderer.FrameEncoder()

	computePipeline := computeEntry.Pipeline().(*wgpu.ComputePipeline)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(computePipeline)
	pass.SetBindGroup(0, bundle.computeBindGroup, nil)
	pass.DispatchWorkgroups(width, height, 1)
	pass.End()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  bundle.colorTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: bundle.accumBuffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  bundle.dims.PaddedBytesPerRow,
				RowsPerImage: bundle.dims.Height,
			},
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	screenPipeline := screenEntry.Pipeline().(*wgpu.RenderPipeline)
	screenPass := o.renderer.BeginScreenPass()
	screenPass.SetViewport(originX, originY, fitted.X, fitted.Y, 0, 1)
	screenPass.SetPipeline(screenPipeline)
	screenPass.SetBindGroup(0, bundle.screenBindGroup, nil)
	screenPass.Draw(6, 1, 0, 0)

	o.renderer.EndFrame()
	o.renderer.Present()

	return nil
}
