package tracer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRenderer satisfies renderer.Renderer without a GPU, recording frame
// acquisition attempts.
type stubRenderer struct {
	pipelines  map[string]pipeline.Pipeline
	beginErr   error
	beginCalls int
}

var _ renderer.Renderer = &stubRenderer{}

func (r *stubRenderer) Device() *wgpu.Device                    { return nil }
func (r *stubRenderer) Queue() *wgpu.Queue                      { return nil }
func (r *stubRenderer) SurfaceFormat() wgpu.TextureFormat       { return wgpu.TextureFormatUndefined }
func (r *stubRenderer) Pipeline(key string) pipeline.Pipeline   { return r.pipelines[key] }
func (r *stubRenderer) Pipelines() map[string]pipeline.Pipeline { return r.pipelines }
func (r *stubRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		r.pipelines[p.PipelineKey()] = p
	}
	return nil
}
func (r *stubRenderer) SetPipeline(key string, p pipeline.Pipeline)     { r.pipelines[key] = p }
func (r *stubRenderer) SetPipelines(pipelines map[string]pipeline.Pipeline) { r.pipelines = pipelines }
func (r *stubRenderer) Resize(width, height int)                        {}
func (r *stubRenderer) CreateSampler(samplerStagingData common.SamplerStagingData) (*wgpu.Sampler, error) {
	return nil, nil
}
func (r *stubRenderer) BeginFrame() error {
	r.beginCalls++
	return r.beginErr
}
func (r *stubRenderer) FrameEncoder() *wgpu.CommandEncoder         { return nil }
func (r *stubRenderer) BeginScreenPass() *wgpu.RenderPassEncoder   { return nil }
func (r *stubRenderer) EndFrame()                                  {}
func (r *stubRenderer) Present()                                   {}
func (r *stubRenderer) SetPresentMode(mode renderer.PresentMode)   {}

type stubFactory struct {
	built int
}

func (f *stubFactory) RegisterPipelines() error { return nil }
func (f *stubFactory) BuildBundle(width, height uint32) (*ResourceBundle, error) {
	f.built++
	return &ResourceBundle{dims: NewBufferDimensions(width, height)}, nil
}

type stubUploader struct {
	snapshots []uint32
}

func (u *stubUploader) Scene() Scene { return Scene{} }
func (u *stubUploader) Snapshot(frameCount uint32) SceneInfo {
	u.snapshots = append(u.snapshots, frameCount)
	return SceneInfo{FrameCount: frameCount}
}
func (u *stubUploader) Upload(bundle *ResourceBundle, info SceneInfo) {}

func stubPipelines() map[string]pipeline.Pipeline {
	return map[string]pipeline.Pipeline{
		ComputePipelineKey: pipeline.NewPipeline(ComputePipelineKey, pipeline.PipelineTypeCompute),
		ScreenPipelineKey:  pipeline.NewPipeline(ScreenPipelineKey, pipeline.PipelineTypeRender),
	}
}

func TestFitViewport(t *testing.T) {
	tests := []struct {
		name        string
		availWidth  float32
		availHeight float32
		aspect      float32
		wantX       float32
		wantY       float32
	}{
		{"width bound", 800, 800, 1.5, 800, 800.0 / 1.5},
		{"height bound", 300, 100, 1.5, 150, 100},
		{"exact fit", 600, 400, 1.5, 600, 400},
		{"square aspect wide area", 500, 200, 1.0, 200, 200},
		{"square aspect tall area", 200, 500, 1.0, 200, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fitted := FitViewport(tt.availWidth, tt.availHeight, tt.aspect)

			assert.InDelta(t, tt.wantX, fitted.X, 1e-3)
			assert.InDelta(t, tt.wantY, fitted.Y, 1e-3)
			assert.LessOrEqual(t, fitted.X, tt.availWidth)
			assert.LessOrEqual(t, fitted.Y, tt.availHeight)
			assert.InDelta(t, tt.aspect, fitted.X/fitted.Y, 1e-3)
		})
	}
}

func TestPlanFrameSkipsDegenerateTargets(t *testing.T) {
	tests := []struct {
		name        string
		availWidth  float32
		availHeight float32
		wantSkip    bool
	}{
		{"normal area", 800, 800, false},
		{"sub pixel width", 0.5, 800, true},
		{"sub pixel height", 800, 0.4, true},
		{"collapsed area", 0, 0, true},
		{"one pixel tall", 1.5, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, skip := planFrame(tt.availWidth, tt.availHeight, 1.5)
			assert.Equal(t, tt.wantSkip, skip)
		})
	}
}

func TestAdvanceFrameSequence(t *testing.T) {
	o := &frameOrchestrator{aspect: 1.5}

	// First frame against a fresh bundle starts at 1, then counts up.
	assert.Equal(t, uint32(1), o.advanceFrame())
	assert.Equal(t, uint32(2), o.advanceFrame())
	assert.Equal(t, uint32(3), o.advanceFrame())
	assert.Equal(t, uint32(3), o.FrameCount())

	// A bundle rebuild zeroes the counter before the next acquisition.
	o.frameCount = 0
	assert.Equal(t, uint32(1), o.advanceFrame())
}

func TestRenderFrameSkipsDegenerateTargetEntirely(t *testing.T) {
	r := &stubRenderer{pipelines: stubPipelines()}
	f := &stubFactory{}
	u := &stubUploader{}
	var slot ResourceSlot
	o := NewFrameOrchestrator(r, f, &slot, u)

	require.NoError(t, o.RenderFrame(0, 0, 0.5, 0.5))

	// Nothing happened on the GPU side: no surface acquisition, no bundle,
	// no counter movement. The previously presented image stays up.
	assert.Zero(t, r.beginCalls)
	assert.Zero(t, f.built)
	assert.Zero(t, o.FrameCount())
	assert.Nil(t, slot.Load())
	assert.Empty(t, u.snapshots)
}

func TestRenderFrameAcquireFailureDoesNotConsumeCounter(t *testing.T) {
	r := &stubRenderer{pipelines: stubPipelines(), beginErr: errors.New("surface lost")}
	f := &stubFactory{}
	u := &stubUploader{}
	var slot ResourceSlot
	o := NewFrameOrchestrator(r, f, &slot, u, WithAspectRatio(1.0))

	err := o.RenderFrame(0, 0, 400, 400)
	require.Error(t, err)

	// The rebuilt bundle is installed, but no frame was displayed: the counter
	// stays at 0 so the next successful frame runs as 1 and overwrites the
	// zeroed accumulation instead of blending with it.
	assert.Equal(t, 1, f.built)
	require.NotNil(t, slot.Load())
	assert.Equal(t, uint32(400), slot.Load().Dimensions().Width)
	assert.Equal(t, uint32(0), o.FrameCount())
	assert.Empty(t, u.snapshots)
}

func TestRenderFrameRequiresRegisteredPipelines(t *testing.T) {
	r := &stubRenderer{pipelines: map[string]pipeline.Pipeline{}}
	f := &stubFactory{}
	var slot ResourceSlot
	o := NewFrameOrchestrator(r, f, &slot, &stubUploader{})

	err := o.RenderFrame(0, 0, 400, 400)
	require.Error(t, err)
	assert.Zero(t, r.beginCalls)
	assert.Zero(t, f.built)
	assert.Zero(t, o.FrameCount())
}
