package pipeline

import (
	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/types"
)

type filmState uint8

const (
	filmIdle filmState = iota
	filmPrepared
)

// Film is the per-camera device-resident accumulation buffer. Its lifecycle
// is prepare -> accumulate -> download -> release, strictly within one
// camera's render pass; the state is checked so misuse surfaces as an error
// instead of corrupting another camera's frame.
type Film struct {
	dev        *device.Device
	resolution types.UVec2
	buffer     *device.Buffer
	state      filmState
}

func newFilm(dev *device.Device, resolution types.UVec2) *Film {
	return &Film{
		dev:        dev,
		resolution: resolution,
	}
}

// Resolution returns the film dimensions in pixels.
func (f *Film) Resolution() types.UVec2 {
	return f.resolution
}

// Prepare allocates the accumulation buffer and enqueues a clear.
func (f *Film) Prepare(s *device.Stream) error {
	if f.state == filmPrepared {
		return ErrFilmAlreadyPrepared
	}
	f.buffer = f.dev.Buffer("film", int(f.resolution.Area()))
	f.buffer.Clear(s)
	f.state = filmPrepared
	return nil
}

// Accumulate adds a weighted radiance estimate for one pixel. Device side:
// called from within dispatched kernel bodies, where the prepare/release
// ordering is already guaranteed by stream order.
func (f *Film) Accumulate(pixel types.UVec2, value types.Vec4) {
	f.buffer.Accumulate(pixel[1]*f.resolution[0]+pixel[0], value)
}

// Download enqueues a copy of the accumulated frame into dst. dst must hold
// resolution.x * resolution.y values.
func (f *Film) Download(s *device.Stream, dst []types.Vec4) error {
	if f.state != filmPrepared {
		return ErrFilmNotPrepared
	}
	f.buffer.Download(s, dst)
	return nil
}

// Release frees the film's device resources.
func (f *Film) Release() error {
	if f.state != filmPrepared {
		return ErrFilmNotPrepared
	}
	f.buffer.Release()
	f.buffer = nil
	f.state = filmIdle
	return nil
}
