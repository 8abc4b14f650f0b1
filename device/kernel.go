package device

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lumen-render/lumen/types"
)

// Per-dispatch kernel arguments: the global sample counter (also used as
// the frame index for sampler seeding), the shutter time and the shutter
// weight.
type Args struct {
	SampleID uint32
	Time     float32
	Weight   float32
}

// KernelFunc is the body of a 2-D kernel. It is invoked once per pixel of
// the dispatch grid, potentially from multiple worker goroutines; bodies
// must only write device state owned by their pixel.
type KernelFunc func(pixel types.UVec2, args Args)

// KernelDescriptor describes a 2-D kernel prior to compilation.
type KernelDescriptor struct {
	Name string

	// Workgroup shape. Pixels are processed in BlockSize tiles; the shape
	// is fixed for the lifetime of the compiled kernel.
	BlockSize types.UVec2

	Body KernelFunc
}

// A compiled 2-D kernel.
type Kernel struct {
	device *Device
	name   string
	block  types.UVec2
	body   KernelFunc
}

// Get kernel name.
func (k *Kernel) Name() string {
	return k.name
}

// Dispatch enqueues one execution of the kernel over the full pixel grid.
// Tiles are fanned out across the device's worker pool; the command retires
// once every pixel has been processed.
func (k *Kernel) Dispatch(s *Stream, resolution types.UVec2, args Args) {
	s.Enqueue(fmt.Sprintf("dispatch:%s", k.name), func() error {
		if resolution[0] == 0 || resolution[1] == 0 {
			return fmt.Errorf("device (%s): kernel %s: %w", k.device.Name, k.name, ErrInvalidGrid)
		}

		var grp errgroup.Group
		grp.SetLimit(k.device.workers)

		for ty := uint32(0); ty < resolution[1]; ty += k.block[1] {
			for tx := uint32(0); tx < resolution[0]; tx += k.block[0] {
				x0, y0 := tx, ty
				grp.Go(func() error {
					yMax := min(y0+k.block[1], resolution[1])
					xMax := min(x0+k.block[0], resolution[0])
					for y := y0; y < yMax; y++ {
						for x := x0; x < xMax; x++ {
							k.body(types.UVec2{x, y}, args)
						}
					}
					return nil
				})
			}
		}

		return grp.Wait()
	})
}
