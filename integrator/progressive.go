package integrator

import (
	"context"
	"fmt"
	"time"

	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/display"
	"github.com/lumen-render/lumen/imgio"
	"github.com/lumen-render/lumen/log"
	"github.com/lumen-render/lumen/pipeline"
	"github.com/lumen-render/lumen/progress"
	"github.com/lumen-render/lumen/types"
)

// Dispatches grouped per commit when no live preview is attached, or when
// an attached preview has requested shutdown.
const fallbackCommitInterval = 32

// Workgroup shape of the sampling kernel. Fixed for the duration of one
// camera's render.
var renderBlockSize = types.UVec2{16, 16}

// Desc configures a progressive integrator.
type Desc struct {
	// Base seed for the independent sampler.
	SamplerSeed uint64

	// Optional live preview. Nil disables it.
	Display display.Display

	// Progress sink. Nil installs a terminal progress bar.
	Progress progress.Reporter
}

// CameraStats captures per-camera timings reported after a render.
type CameraStats struct {
	Output      string
	Resolution  types.UVec2
	SPP         uint32
	Dispatches  uint32
	CompileTime time.Duration
	RenderTime  time.Duration
}

// Progressive drives a camera's film to convergence one sample dispatch at
// a time, batching device work into periodic commits and interleaving it
// with the preview and the progress reporter.
//
// Progressive is the base scheduler: its default estimator is a hard-fail
// sentinel, and variants supply a real one at construction time.
type Progressive struct {
	Instance

	logger    log.Logger
	estimator Estimator
	display   display.Display
	progress  progress.Reporter

	stats []CameraStats
}

// NewProgressive builds the base progressive scheduler. The result is not
// renderable until a variant estimator is attached; invoking the default
// estimator aborts with a diagnostic.
func NewProgressive(p *pipeline.Pipeline, desc Desc) *Progressive {
	reporter := desc.Progress
	if reporter == nil {
		reporter = progress.NewBar()
	}
	return &Progressive{
		Instance:  newInstance(p, desc.SamplerSeed),
		logger:    log.New("integrator"),
		estimator: unimplemented{},
		display:   desc.Display,
		progress:  reporter,
	}
}

// Stats returns the per-camera statistics of the last Render call, in
// camera registration order. Failed cameras are absent.
func (r *Progressive) Stats() []CameraStats {
	return r.stats
}

// Render runs every camera of the pipeline to convergence, in registration
// order, and writes one image per camera. It blocks until all cameras are
// finished. A failure aborts the affected camera without writing its file;
// the remaining cameras still render, and the first error is returned.
func (r *Progressive) Render(ctx context.Context, s *device.Stream) error {
	r.stats = r.stats[:0]

	var firstErr error
	for i := 0; i < r.pipeline.CameraCount(); i++ {
		if err := r.renderCamera(ctx, s, r.pipeline.Camera(i)); err != nil {
			r.logger.Errorf("camera %d: %v", i, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("integrator: camera %d: %w", i, err)
			}
		}
	}
	return firstErr
}

func (r *Progressive) renderCamera(ctx context.Context, s *device.Stream, camera *pipeline.Camera) (err error) {
	film := camera.Film()
	resolution := film.Resolution()

	if err = film.Prepare(s); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			// Abort path: drain any outstanding commands so the next
			// camera starts from a clean stream, then drop the film.
			// No file is written.
			_ = s.Synchronize()
			_ = film.Release()
		}
	}()

	if r.display != nil {
		r.display.Reset(s, film)
	}

	if err = r.renderOneCamera(ctx, s, camera); err != nil {
		return err
	}

	// Let the preview flush outstanding frames before the final readback.
	for r.display != nil && !r.display.Idle(s) {
	}

	pixels := make([]types.Vec4, resolution.Area())
	if err = film.Download(s, pixels); err != nil {
		return err
	}
	if err = s.Synchronize(); err != nil {
		return err
	}
	if err = film.Release(); err != nil {
		return err
	}

	return imgio.Write(camera.Node().File(), pixels, resolution)
}

// renderOneCamera is the per-camera sample loop: one dispatch per sample
// per shutter point, committed every commit interval.
func (r *Progressive) renderOneCamera(ctx context.Context, s *device.Stream, camera *pipeline.Camera) error {
	node := camera.Node()
	film := camera.Film()
	spp := node.SPP
	resolution := film.Resolution()

	schedule, err := node.ShutterSamples()
	if err != nil {
		return err
	}

	r.sampler.Reset(s, resolution, resolution.Area(), spp)
	r.pipeline.Printer().Reset(s)
	if err := s.Synchronize(); err != nil {
		return err
	}

	r.logger.Infof("rendering to %q of resolution %dx%d at %d spp", node.File(), resolution[0], resolution[1], spp)

	clockCompile := time.Now()
	kernel, err := r.pipeline.Device().Compile(device.KernelDescriptor{
		Name:      "render",
		BlockSize: renderBlockSize,
		Body: func(pixel types.UVec2, args device.Args) {
			L := r.estimator.Li(camera, args.SampleID, pixel, args.Time)
			film.Accumulate(pixel, L.Mul(args.Weight).Vec4(args.Weight))
		},
	})
	if err != nil {
		return err
	}
	compileTime := time.Since(clockCompile)
	r.logger.Infof("sampling kernel compiled in %s", compileTime)

	clock := time.Now()
	r.progress.Update(0)

	var sampleID uint32
	var batch uint32
	for _, shutter := range schedule {
		r.pipeline.Update(s, shutter.Time)
		for i := uint32(0); i < shutter.SampleCount; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			kernel.Dispatch(s, resolution, device.Args{
				SampleID: sampleID,
				Time:     shutter.Time,
				Weight:   shutter.Weight,
			})
			sampleID++

			if p := r.pipeline.Printer(); !p.Empty() {
				p.Retrieve(s)
			}

			// Re-evaluated on every dispatch rather than cached so a
			// preview shutdown request takes effect immediately.
			interval := uint32(fallbackCommitInterval)
			if r.display != nil && !r.display.ShouldClose() {
				interval = r.display.Interval()
			}
			if interval == 0 {
				interval = 1
			}

			if batch++; batch >= interval {
				batch = 0
				frac := float64(sampleID) / float64(spp)
				if r.display != nil && r.display.Update(s, sampleID) {
					r.progress.Update(frac)
				} else {
					s.Do(func() { r.progress.Update(frac) })
				}
			}
		}
	}

	if err := s.Synchronize(); err != nil {
		return err
	}
	r.progress.Done()

	r.stats = append(r.stats, CameraStats{
		Output:      node.File(),
		Resolution:  resolution,
		SPP:         spp,
		Dispatches:  sampleID,
		CompileTime: compileTime,
		RenderTime:  time.Since(clock),
	})
	r.logger.Infof("render finished in %s", time.Since(clock))
	return nil
}
