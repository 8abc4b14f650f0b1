package device

import (
	"fmt"

	"github.com/lumen-render/lumen/types"
)

// A device-resident accumulation buffer of float4 values. Buffers are only
// touched by commands executing on a stream worker, so no locking is needed
// as long as concurrent writers within one dispatch target distinct indices.
type Buffer struct {
	device *Device
	name   string
	data   []types.Vec4
}

// Get buffer element count.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Clear enqueues a command that zeroes the buffer contents.
func (b *Buffer) Clear(s *Stream) {
	s.Enqueue("clear:"+b.name, func() error {
		if b.data == nil {
			return fmt.Errorf("device (%s): buffer %s: %w", b.device.Name, b.name, ErrBufferReleased)
		}
		for i := range b.data {
			b.data[i] = types.Vec4{}
		}
		return nil
	})
}

// Accumulate adds a value at the given index. Called from kernel bodies,
// i.e. on the device side of the stream.
func (b *Buffer) Accumulate(index uint32, v types.Vec4) {
	b.data[index] = b.data[index].Add(v)
}

// At returns the value at the given index. Device side.
func (b *Buffer) At(index uint32) types.Vec4 {
	return b.data[index]
}

// Download enqueues a copy of the buffer contents into dst. The copy is
// complete once a barrier enqueued after this command retires.
func (b *Buffer) Download(s *Stream, dst []types.Vec4) {
	s.Enqueue("download:"+b.name, func() error {
		if b.data == nil {
			return fmt.Errorf("device (%s): buffer %s: %w", b.device.Name, b.name, ErrBufferReleased)
		}
		if len(dst) < len(b.data) {
			return fmt.Errorf("device (%s): buffer %s: need %d elements, dst holds %d: %w",
				b.device.Name, b.name, len(b.data), len(dst), ErrBufferTooSmall)
		}
		copy(dst, b.data)
		return nil
	})
}

// Release frees the buffer storage. Any command touching the buffer after
// this point fails with ErrBufferReleased.
func (b *Buffer) Release() {
	b.data = nil
}
