package renderer

// Integrator variants selectable at the renderer surface.
const (
	PathVariant   = "path"
	NormalVariant = "normal"
)

type Options struct {
	// Device name used in logs and diagnostics.
	DeviceName string

	// Number of dispatch workers. 0 uses one per CPU.
	Workers int

	// Integrator variant.
	Variant string

	// Number of indirect bounces for the path variant.
	NumBounces uint32

	// Base seed for the independent sampler.
	SamplerSeed uint64

	// Live preview window.
	Preview         bool
	PreviewInterval uint32
}

func (o *Options) applyDefaults() {
	if o.DeviceName == "" {
		o.DeviceName = "host"
	}
	if o.Variant == "" {
		o.Variant = PathVariant
	}
	if o.NumBounces == 0 {
		o.NumBounces = 5
	}
	if o.PreviewInterval == 0 {
		o.PreviewInterval = 16
	}
}
