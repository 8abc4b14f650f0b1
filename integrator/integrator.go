package integrator

import (
	"fmt"
	"runtime"

	"github.com/lumen-render/lumen/pipeline"
	"github.com/lumen-render/lumen/types"
)

// Estimator is the pluggable radiance-estimation strategy: given a camera,
// a frame index, a pixel coordinate and a shutter time it returns a
// radiance estimate. Implementations must be deterministic functions of
// their inputs and the sampler state so renders are reproducible.
type Estimator interface {
	Li(camera *pipeline.Camera, frameIndex uint32, pixel types.UVec2, time float32) types.Vec3
}

// Instance binds sampling infrastructure to one pipeline: the sampler, and
// a light sampler when the scene has emitters. Construction touches no
// image resources.
type Instance struct {
	pipeline *pipeline.Pipeline
	sampler  *Sampler
	lights   *LightSampler
}

func newInstance(p *pipeline.Pipeline, samplerSeed uint64) Instance {
	in := Instance{
		pipeline: p,
		sampler:  NewSampler(samplerSeed),
	}
	if p.HasLighting() {
		in.lights = buildLightSampler(p)
	}
	return in
}

// Pipeline returns the bound pipeline.
func (in *Instance) Pipeline() *pipeline.Pipeline {
	return in.pipeline
}

// Sampler returns the per-pipeline sampler.
func (in *Instance) Sampler() *Sampler {
	return in.sampler
}

// LightSampler returns the emitter sampler, or nil for scenes without
// lighting.
func (in *Instance) LightSampler() *LightSampler {
	return in.lights
}

// unimplemented is the hard-fail sentinel estimator. A progressive
// integrator constructed without a variant estimator indicates a
// construction bug, so invoking it aborts immediately instead of
// rendering black frames.
type unimplemented struct{}

func (unimplemented) Li(_ *pipeline.Camera, _ uint32, _ types.UVec2, _ float32) types.Vec3 {
	_, file, line, _ := runtime.Caller(1)
	panic(fmt.Sprintf("integrator: Li is not implemented (called from %s:%d); construct a variant with an estimator", file, line))
}
