package integrator

import (
	"github.com/lumen-render/lumen/pipeline"
)

// LightSampler supplies the emitter-sampling strategy. It is built once per
// pipeline, and only when the scene reports lighting; scenes without
// emitters simply carry a nil sampler.
type LightSampler struct {
	emitters []int
}

// buildLightSampler collects the emissive primitives of the pipeline into a
// uniform sampler.
func buildLightSampler(p *pipeline.Pipeline) *LightSampler {
	ls := &LightSampler{}
	for i, sph := range p.Spheres() {
		if sph.Emissive() {
			ls.emitters = append(ls.emitters, i)
		}
	}
	return ls
}

// Count returns the number of emitters.
func (ls *LightSampler) Count() int {
	return len(ls.emitters)
}

// Sample picks one emitter uniformly. It returns the primitive index and
// the probability of the choice.
func (ls *LightSampler) Sample(u float32) (int, float32) {
	n := len(ls.emitters)
	pick := int(u * float32(n))
	if pick >= n {
		pick = n - 1
	}
	return ls.emitters[pick], 1 / float32(n)
}
