package tracer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneUploaderSnapshot(t *testing.T) {
	base := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	current := base
	u := NewSceneUploader(nil, DefaultScene(),
		WithClock(func() time.Time { return current }),
		WithRandSource(rand.NewSource(1)),
	)

	first := u.Snapshot(1)
	assert.Equal(t, float32(2.0), first.Camera.Position.X)
	assert.Equal(t, uint32(4), first.SphereCount)
	assert.Equal(t, uint32(1), first.FrameCount)
	assert.Zero(t, first.Time)
	require.GreaterOrEqual(t, first.RandomSeed, float32(0))
	require.Less(t, first.RandomSeed, float32(1))

	current = base.Add(2500 * time.Millisecond)
	second := u.Snapshot(2)
	assert.Equal(t, uint32(2), second.FrameCount)
	assert.InDelta(t, 2.5, second.Time, 1e-6)
	assert.NotEqual(t, first.RandomSeed, second.RandomSeed, "each frame gets a fresh seed")
}

func TestSceneUploaderScene(t *testing.T) {
	scene := DefaultScene()
	u := NewSceneUploader(nil, scene)

	assert.Equal(t, scene.Camera, u.Scene().Camera)
	assert.Len(t, u.Scene().Spheres, len(scene.Spheres))
}
