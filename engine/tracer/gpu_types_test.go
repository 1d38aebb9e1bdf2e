package tracer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

func u32At(t *testing.T, buf []byte, offset int) uint32 {
	t.Helper()
	return binary.LittleEndian.Uint32(buf[offset : offset+4])
}

func TestSceneInfoMarshalLayout(t *testing.T) {
	info := SceneInfo{
		Camera:      Camera{Position: common.Vec3{X: 2, Y: -1.5, Z: 0.25}},
		Time:        4.5,
		SphereCount: 4,
		RandomSeed:  0.625,
		FrameCount:  7,
	}

	buf := info.Marshal()
	require.Len(t, buf, SceneInfoByteSize)

	assert.Equal(t, float32(2), f32At(t, buf, 0))
	assert.Equal(t, float32(-1.5), f32At(t, buf, 4))
	assert.Equal(t, float32(0.25), f32At(t, buf, 8))
	assert.Equal(t, uint32(0), u32At(t, buf, 12), "camera pad must stay zero")
	assert.Equal(t, float32(4.5), f32At(t, buf, 16))
	assert.Equal(t, uint32(4), u32At(t, buf, 20))
	assert.Equal(t, float32(0.625), f32At(t, buf, 24))
	assert.Equal(t, uint32(7), u32At(t, buf, 28))
}

func TestSphereMarshalLayout(t *testing.T) {
	s := Sphere{
		Position: common.Vec3{X: 10, Y: 0, Z: 1},
		Radius:   1,
		Mat: Material{
			Albedo:   common.Vec3{X: 0.87, Y: 0.5, Z: 0.25},
			IsMirror: 1,
		},
	}

	buf := s.Marshal()
	require.Len(t, buf, SphereByteSize)

	assert.Equal(t, float32(10), f32At(t, buf, 0))
	assert.Equal(t, float32(0), f32At(t, buf, 4))
	assert.Equal(t, float32(1), f32At(t, buf, 8))
	assert.Equal(t, float32(1), f32At(t, buf, 12))
	assert.Equal(t, float32(0.87), f32At(t, buf, 16))
	assert.Equal(t, float32(0.5), f32At(t, buf, 20))
	assert.Equal(t, float32(0.25), f32At(t, buf, 24))
	assert.Equal(t, uint32(1), u32At(t, buf, 28))
}

func TestMaterialMarshalLayout(t *testing.T) {
	m := Material{Albedo: common.Vec3{X: 1, Y: 0.5, Z: 0.5}}

	buf := m.Marshal()
	require.Len(t, buf, MaterialByteSize)

	assert.Equal(t, float32(1), f32At(t, buf, 0))
	assert.Equal(t, float32(0.5), f32At(t, buf, 4))
	assert.Equal(t, float32(0.5), f32At(t, buf, 8))
	assert.Equal(t, uint32(0), u32At(t, buf, 12))
}

func TestMarshalSpheres(t *testing.T) {
	scene := DefaultScene()
	buf := MarshalSpheres(scene.Spheres)
	require.Len(t, buf, MaxSpheres*SphereByteSize)

	// Each live sphere occupies its slot at a 32-byte stride.
	for i, s := range scene.Spheres {
		slot := buf[i*SphereByteSize : (i+1)*SphereByteSize]
		assert.Equal(t, s.Marshal(), slot, "sphere %d", i)
	}

	// Unused slots stay zero.
	for _, b := range buf[len(scene.Spheres)*SphereByteSize:] {
		require.Zero(t, b)
	}
}

func TestMarshalSpheresOverCapacity(t *testing.T) {
	spheres := make([]Sphere, MaxSpheres+4)
	for i := range spheres {
		spheres[i].Radius = float32(i + 1)
	}

	buf := MarshalSpheres(spheres)
	require.Len(t, buf, MaxSpheres*SphereByteSize)
	assert.Equal(t, float32(MaxSpheres), f32At(t, buf, (MaxSpheres-1)*SphereByteSize+12))
}

func TestDefaultScene(t *testing.T) {
	scene := DefaultScene()

	assert.Equal(t, float32(2.0), scene.Camera.X)
	require.Len(t, scene.Spheres, 4)
	assert.Equal(t, uint32(1), scene.Spheres[0].Mat.IsMirror)
	assert.Equal(t, uint32(1), scene.Spheres[1].Mat.IsMirror)
	assert.Equal(t, uint32(0), scene.Spheres[2].Mat.IsMirror)
	assert.Equal(t, float32(100), scene.Spheres[3].Radius)
}
