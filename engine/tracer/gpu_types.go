package tracer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/lumen-go/common"
)

const (
	// MaterialByteSize is the stride of Material in the sphere storage buffer.
	MaterialByteSize = 16

	// SphereByteSize is the stride of Sphere in the sphere storage buffer.
	SphereByteSize = 32

	// SceneInfoByteSize is the size of the SceneInfo uniform buffer.
	SceneInfoByteSize = 32

	// MaxSpheres is the fixed capacity of the sphere storage buffer. The full
	// buffer is uploaded every frame regardless of how many spheres are live;
	// the kernel reads only SceneInfo.SphereCount entries.
	MaxSpheres = 16
)

// Material is the GPU-aligned surface description for a sphere.
// Matches the WGSL Material struct layout exactly.
// Size: 16 bytes (vec3<f32> albedo occupies 12 bytes, u32 flag fills the pad).
type Material struct {
	Albedo   common.Vec3 // offset  0: surface color (12 bytes)
	IsMirror uint32      // offset 12: 1 = perfect mirror, 0 = diffuse (4 bytes)
}

// Size returns the size of the Material struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (m *Material) Size() int {
	return int(unsafe.Sizeof(*m))
}

// Marshal serializes the Material struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (m *Material) Marshal() []byte {
	buf := make([]byte, MaterialByteSize)
	m.marshalInto(buf)
	return buf
}

func (m *Material) marshalInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(m.Albedo.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(m.Albedo.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(m.Albedo.Z))
	binary.LittleEndian.PutUint32(buf[12:16], m.IsMirror)
}

// Sphere is the GPU-aligned representation of a scene sphere.
// Matches the WGSL Sphere struct layout exactly.
// Size: 32 bytes (position + radius 16, material 16, std430 aligned).
type Sphere struct {
	Position common.Vec3 // offset  0: center in world space (12 bytes)
	Radius   float32     // offset 12: sphere radius (4 bytes)
	Mat      Material    // offset 16: surface material (16 bytes)
}

// Size returns the size of the Sphere struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (s *Sphere) Size() int {
	return int(unsafe.Sizeof(*s))
}

// Marshal serializes the Sphere struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (s *Sphere) Marshal() []byte {
	buf := make([]byte, SphereByteSize)
	s.marshalInto(buf)
	return buf
}

func (s *Sphere) marshalInto(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(s.Position.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(s.Position.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(s.Position.Z))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(s.Radius))
	s.Mat.marshalInto(buf[16:32])
}

// MarshalSpheres serializes a slice of spheres into the fixed-capacity sphere
// buffer layout. Slots beyond len(spheres) are zero.
//
// Parameters:
//   - spheres: the live spheres, at most MaxSpheres
//
// Returns:
//   - []byte: MaxSpheres × 32-byte buffer ready for GPU upload.
func MarshalSpheres(spheres []Sphere) []byte {
	buf := make([]byte, MaxSpheres*SphereByteSize)
	for i := range spheres {
		if i >= MaxSpheres {
			break
		}
		spheres[i].marshalInto(buf[i*SphereByteSize : (i+1)*SphereByteSize])
	}
	return buf
}

// Camera is the GPU-aligned camera description.
// Matches the WGSL Camera struct layout exactly.
// Size: 16 bytes (vec3<f32> position padded to 16).
type Camera struct {
	Position common.Vec3 // offset  0: eye position in world space (12 bytes)
	_        uint32      // offset 12: pad to vec4 alignment (4 bytes)
}

// SceneInfo is the per-frame uniform block consumed by the raytracing kernel.
// Matches the WGSL SceneInfo struct layout exactly; field order is the kernel ABI.
// Size: 32 bytes.
type SceneInfo struct {
	Camera      Camera  // offset  0: camera (16 bytes)
	Time        float32 // offset 16: seconds since tracer construction (4 bytes)
	SphereCount uint32  // offset 20: number of live spheres uploaded this frame (4 bytes)
	RandomSeed  float32 // offset 24: fresh uniform [0,1) sample for this frame (4 bytes)
	FrameCount  uint32  // offset 28: frames accumulated since the last resize (4 bytes)
}

// Size returns the size of the SceneInfo struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (s *SceneInfo) Size() int {
	return int(unsafe.Sizeof(*s))
}

// Marshal serializes the SceneInfo struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (s *SceneInfo) Marshal() []byte {
	buf := make([]byte, SceneInfoByteSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(s.Camera.Position.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(s.Camera.Position.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(s.Camera.Position.Z))
	// bytes 12..16 are the camera's vec4 pad and stay zero
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(s.Time))
	binary.LittleEndian.PutUint32(buf[20:24], s.SphereCount)
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(s.RandomSeed))
	binary.LittleEndian.PutUint32(buf[28:32], s.FrameCount)
	return buf
}
