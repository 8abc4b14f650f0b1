package integrator

import (
	"github.com/lumen-render/lumen/pipeline"
	"github.com/lumen-render/lumen/types"
)

// NewNormal builds the shading-normal debug variant: each sample shades the
// geometric normal of the first hit. Deterministic and cheap, which also
// makes it the reference variant for reproducibility tests.
func NewNormal(p *pipeline.Pipeline, desc Desc) *Progressive {
	r := NewProgressive(p, desc)
	r.estimator = &normalEstimator{in: &r.Instance}
	return r
}

type normalEstimator struct {
	in *Instance
}

func (e *normalEstimator) Li(camera *pipeline.Camera, frameIndex uint32, pixel types.UVec2, _ float32) types.Vec3 {
	seq := e.in.sampler.Pixel(pixel, frameIndex)
	u, v := seq.Next2D()
	ray := camera.GenerateRay(pixel, u, v)

	index, t, ok := closestHit(e.in.pipeline, ray)
	if !ok {
		return e.in.pipeline.Background()
	}

	sph := e.in.pipeline.Spheres()[index]
	normal := ray.PointAt(t).Sub(sph.ActiveCenter).Mul(1 / sph.Radius)
	return normal.Mul(0.5).Add(types.XYZ(0.5, 0.5, 0.5))
}
