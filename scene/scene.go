package scene

import (
	"github.com/lumen-render/lumen/types"
)

// Scene is the declarative description of what gets rendered: a set of
// cameras and a set of (possibly moving, possibly emissive) spheres.
// Instancing a scene onto a device is the pipeline's job.
type Scene struct {
	Cameras []*CameraNode
	Spheres []Sphere

	// Background radiance returned for rays that escape the scene.
	Background types.Vec3
}

// HasLighting reports whether the scene contains at least one emissive
// primitive. Scenes without lighting are a valid configuration; the
// integrator simply skips building a light sampler for them.
func (s *Scene) HasLighting() bool {
	for _, sph := range s.Spheres {
		if sph.Emissive() {
			return true
		}
	}
	return false
}

// Validate checks the scene description before any device work is enqueued.
func (s *Scene) Validate() error {
	if len(s.Cameras) == 0 {
		return ErrNoCameras
	}
	for _, cam := range s.Cameras {
		if err := cam.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// A sphere primitive. Center is the position at time 0; moving spheres
// translate along Velocity over the shutter interval.
type Sphere struct {
	Center   types.Vec3
	Velocity types.Vec3
	Radius   float32

	Albedo   types.Vec3
	Emission types.Vec3
}

// Emissive reports whether the sphere contributes light.
func (s *Sphere) Emissive() bool {
	return s.Emission.MaxComponent() > 0
}

// CenterAt returns the sphere center at the given shutter time.
func (s *Sphere) CenterAt(time float32) types.Vec3 {
	return s.Center.Add(s.Velocity.Mul(time))
}
