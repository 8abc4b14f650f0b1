package device

import (
	"fmt"
	"runtime"

	"github.com/lumen-render/lumen/types"
)

// Device models an in-process asynchronous compute device. Commands are
// submitted through streams and executed in submission order by a worker
// goroutine owned by each stream; individual kernel dispatches fan out
// across a pool of pixel workers.
type Device struct {
	Name string

	// Number of goroutines used to execute the pixel grid of a single
	// kernel dispatch.
	workers int
}

// Create a new device. If workers is 0 the device uses one pixel worker
// per available CPU.
func New(name string, workers int) *Device {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Device{
		Name:    name,
		workers: workers,
	}
}

// Workers returns the size of the dispatch worker pool.
func (d *Device) Workers() int {
	return d.workers
}

// Compile builds a dispatchable kernel from a descriptor. Compilation is
// expected to happen exactly once per camera render; the returned kernel
// may be dispatched any number of times.
func (d *Device) Compile(desc KernelDescriptor) (*Kernel, error) {
	if desc.Body == nil {
		return nil, ErrMissingKernelFn
	}
	if desc.BlockSize[0] == 0 || desc.BlockSize[1] == 0 {
		return nil, fmt.Errorf("device (%s): kernel %q: %w", d.Name, desc.Name, ErrInvalidBlockSize)
	}

	return &Kernel{
		device: d,
		name:   desc.Name,
		block:  desc.BlockSize,
		body:   desc.Body,
	}, nil
}

// Buffer allocates a device-resident buffer that can hold count Vec4 values.
func (d *Device) Buffer(name string, count int) *Buffer {
	return &Buffer{
		device: d,
		name:   name,
		data:   make([]types.Vec4, count),
	}
}

// Implements Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("Name: %s\nSpecs: %d dispatch workers", d.Name, d.workers)
}
