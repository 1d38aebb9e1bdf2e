package tracer

import (
	"math/rand"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// sceneUploader is the implementation of the SceneUploader interface.
type sceneUploader struct {
	queue *wgpu.Queue
	scene Scene

	start time.Time
	now   func() time.Time
	rng   *rand.Rand
}

// SceneUploader packs per-frame scene data and writes it to a bundle's GPU
// buffers. Snapshot fixes the frame's SceneInfo once at prepare start; Upload
// enqueues the writes so they are ordered before the dispatch in the same
// submission.
type SceneUploader interface {
	// Scene returns the static scene content.
	//
	// Returns:
	//   - Scene: the scene
	Scene() Scene

	// Snapshot builds the immutable SceneInfo for one frame: the static camera,
	// seconds elapsed since uploader construction, the live sphere count, a
	// fresh uniform [0,1) random seed, and the given frame count.
	//
	// Parameters:
	//   - frameCount: the frame counter value for this frame
	//
	// Returns:
	//   - SceneInfo: the fixed per-frame uniform block
	Snapshot(frameCount uint32) SceneInfo

	// Upload writes the SceneInfo block and the full fixed-capacity sphere
	// array to the bundle's buffers via the queue.
	//
	// Parameters:
	//   - bundle: the bundle whose buffers receive the writes
	//   - info: the frame's SceneInfo snapshot
	Upload(bundle *ResourceBundle, info SceneInfo)
}

var _ SceneUploader = &sceneUploader{}

// NewSceneUploader creates a SceneUploader for the given queue and scene.
//
// Parameters:
//   - queue: the GPU queue used for buffer writes
//   - scene: the static scene content
//   - options: functional options to configure the uploader
//
// Returns:
//   - SceneUploader: the configured uploader
func NewSceneUploader(queue *wgpu.Queue, scene Scene, options ...SceneUploaderOption) SceneUploader {
	u := &sceneUploader{
		queue: queue,
		scene: scene,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range options {
		opt(u)
	}
	u.start = u.now()
	return u
}

// SceneUploaderOption is a functional option for configuring a sceneUploader.
type SceneUploaderOption func(*sceneUploader)

// WithClock overrides the uploader's time source. Mainly for tests.
//
// Parameters:
//   - now: the replacement time source
//
// Returns:
//   - SceneUploaderOption: option function to apply
func WithClock(now func() time.Time) SceneUploaderOption {
	return func(u *sceneUploader) {
		u.now = now
	}
}

// WithRandSource overrides the uploader's random source. Mainly for tests.
//
// Parameters:
//   - src: the replacement random source
//
// Returns:
//   - SceneUploaderOption: option function to apply
func WithRandSource(src rand.Source) SceneUploaderOption {
	return func(u *sceneUploader) {
		u.rng = rand.New(src)
	}
}

func (u *sceneUploader) Scene() Scene {
	return u.scene
}

func (u *sceneUploader) Snapshot(frameCount uint32) SceneInfo {
	return SceneInfo{
		Camera:      Camera{Position: u.scene.Camera},
		Time:        float32(u.now().Sub(u.start).Seconds()),
		SphereCount: uint32(len(u.scene.Spheres)),
		RandomSeed:  u.rng.Float32(),
		FrameCount:  frameCount,
	}
}

func (u *sceneUploader) Upload(bundle *ResourceBundle, info SceneInfo) {
	u.queue.WriteBuffer(bundle.sceneInfoBuffer, 0, info.Marshal())
	u.queue.WriteBuffer(bundle.sphereBuffer, 0, MarshalSpheres(u.scene.Spheres))
}
