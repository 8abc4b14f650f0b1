package scene

import (
	"github.com/lumen-render/lumen/types"
)

// CameraNode describes one camera: where it sits, what it films and where
// the finished frame goes. One node produces exactly one output image.
type CameraNode struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	Resolution types.UVec2

	// Target samples per pixel.
	SPP uint32

	// Shutter open/close times. A zero-length span disables motion blur.
	ShutterOpen  float32
	ShutterClose float32

	// Number of points the shutter span is partitioned into. 0 picks a
	// default. Clamped to SPP.
	ShutterPoints uint32

	// Optional explicit shutter schedule. When set it overrides the
	// uniform partition derived from the span.
	Shutter []ShutterSample

	// Output image path. The extension selects the encoder.
	Output string
}

// File returns the configured output path.
func (c *CameraNode) File() string {
	return c.Output
}

// Validate rejects malformed camera configuration before any device work
// is enqueued.
func (c *CameraNode) Validate() error {
	if c.Resolution[0] == 0 || c.Resolution[1] == 0 {
		return ErrInvalidResolution
	}
	if c.SPP == 0 {
		return ErrInvalidSPP
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return ErrInvalidFOV
	}
	if c.Output == "" {
		return ErrMissingOutput
	}
	if c.ShutterClose < c.ShutterOpen {
		return ErrInvalidShutterSpan
	}
	schedule, err := c.ShutterSamples()
	if err != nil {
		return err
	}
	return ValidateSchedule(schedule)
}
