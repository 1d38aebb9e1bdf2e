package tracer

import "github.com/Carmen-Shannon/lumen-go/common"

// Scene is the host-side scene content handed to the uploader each frame.
// The camera position and sphere set are static; per-frame variation (time,
// random seed, frame count) is produced by the uploader's snapshot.
type Scene struct {
	// Camera is the eye position in world space.
	Camera common.Vec3

	// Spheres are the live scene primitives, at most MaxSpheres.
	Spheres []Sphere
}

// DefaultScene returns the built-in four-sphere scene: two mirror spheres, a
// bright diffuse sphere, and a large diffuse ground sphere, viewed from x = 2.
//
// Returns:
//   - Scene: the default scene content
func DefaultScene() Scene {
	return Scene{
		Camera: common.Vec3{X: 2.0, Y: 0.0, Z: 0.0},
		Spheres: []Sphere{
			{
				Position: common.Vec3{X: 10.0, Y: 0.0, Z: 1.0},
				Radius:   1.0,
				Mat: Material{
					Albedo:   common.Vec3{X: 0.87, Y: 0.87, Z: 0.87},
					IsMirror: 1,
				},
			},
			{
				Position: common.Vec3{X: 7.3, Y: -1.2, Z: 1.02},
				Radius:   1.0,
				Mat: Material{
					Albedo:   common.Vec3{X: 0.87, Y: 0.87, Z: 0.87},
					IsMirror: 1,
				},
			},
			{
				Position: common.Vec3{X: 9.0, Y: 2.2, Z: 1.03},
				Radius:   1.0,
				Mat: Material{
					Albedo: common.Vec3{X: 0.97, Y: 0.97, Z: 0.97},
				},
			},
			{
				// Ground: a huge sphere whose top surface acts as the floor.
				Position: common.Vec3{X: 10.0, Y: 0.0, Z: 102.0},
				Radius:   100.0,
				Mat: Material{
					Albedo: common.Vec3{X: 1.0, Y: 0.5, Z: 0.5},
				},
			},
		},
	}
}
