package integrator

import (
	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/types"
)

// Sampler produces independent per-pixel sample sequences. State is reset
// once per camera render; sequences are seeded deterministically from
// (pixel, sample id) so repeated renders of the same camera are
// reproducible bit for bit.
type Sampler struct {
	seed       uint64
	resolution types.UVec2
	pixelCount uint32
	spp        uint32
}

// NewSampler creates an independent sampler with the given base seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{seed: seed}
}

// Reset enqueues a state reset for the given render configuration.
func (s *Sampler) Reset(stream *device.Stream, resolution types.UVec2, pixelCount, spp uint32) {
	stream.Enqueue("sampler-reset", func() error {
		s.resolution = resolution
		s.pixelCount = pixelCount
		s.spp = spp
		return nil
	})
}

// Pixel derives the sample sequence for one pixel of one dispatch. Device
// side; called from kernel bodies.
func (s *Sampler) Pixel(pixel types.UVec2, sampleID uint32) Sequence {
	index := uint64(pixel[1])*uint64(s.resolution[0]) + uint64(pixel[0])
	state := s.seed
	state = splitmix(state + index)
	state = splitmix(state + uint64(sampleID))
	return Sequence{state: state}
}

// Sequence is a deterministic stream of quasi-random samples in [0, 1).
type Sequence struct {
	state uint64
}

// Next1D draws the next 1-D sample.
func (q *Sequence) Next1D() float32 {
	q.state = splitmix(q.state)
	return float32(q.state>>40) * (1.0 / (1 << 24))
}

// Next2D draws the next 2-D sample.
func (q *Sequence) Next2D() (float32, float32) {
	return q.Next1D(), q.Next1D()
}

// splitmix64 step; the usual finalizer constants.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
