// Package renderer wires a scene onto a device and exposes a one-call
// render entry point.
package renderer

import (
	"context"

	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/display"
	"github.com/lumen-render/lumen/integrator"
	"github.com/lumen-render/lumen/pipeline"
	"github.com/lumen-render/lumen/scene"
)

type Renderer interface {
	// Render all cameras to completion and write their images.
	Render(ctx context.Context) error

	// Shutdown renderer and release the stream and preview.
	Close()

	// Get per-camera render statistics.
	Stats() []integrator.CameraStats
}

type defaultRenderer struct {
	dev        *device.Device
	stream     *device.Stream
	window     *display.Window
	integrator *integrator.Progressive
}

// New creates a renderer for the given scene.
func New(sc *scene.Scene, opts Options) (Renderer, error) {
	opts.applyDefaults()

	dev := device.New(opts.DeviceName, opts.Workers)
	p, err := pipeline.New(dev, sc)
	if err != nil {
		return nil, err
	}

	r := &defaultRenderer{
		dev:    dev,
		stream: dev.CreateStream(),
	}

	desc := integrator.Desc{SamplerSeed: opts.SamplerSeed}
	if opts.Preview {
		r.window = display.NewWindow("lumen", opts.PreviewInterval)
		desc.Display = r.window
	}

	switch opts.Variant {
	case PathVariant:
		r.integrator = integrator.NewPathTracer(p, desc, opts.NumBounces)
	case NormalVariant:
		r.integrator = integrator.NewNormal(p, desc)
	default:
		r.Close()
		return nil, ErrUnknownVariant
	}

	return r, nil
}

func (r *defaultRenderer) Render(ctx context.Context) error {
	return r.integrator.Render(ctx, r.stream)
}

func (r *defaultRenderer) Close() {
	if r.stream != nil {
		r.stream.Close()
		r.stream = nil
	}
	if r.window != nil {
		r.window.Close()
		r.window = nil
	}
}

func (r *defaultRenderer) Stats() []integrator.CameraStats {
	return r.integrator.Stats()
}
