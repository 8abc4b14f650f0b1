package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/log"
)

// Printer is the device-side diagnostic buffer. Kernel bodies append
// messages from dispatch workers; the host drains them through the stream
// without forcing a synchronization stall.
type Printer struct {
	logger log.Logger

	mu      sync.Mutex
	pending []string

	// Mirror of len(pending), updated under mu so the two never diverge;
	// Empty stays a cheap atomic load on the per-dispatch hot path.
	count atomic.Int64
}

func newPrinter() *Printer {
	return &Printer{logger: log.New("printer")}
}

// Printf records a diagnostic message. Device side; safe to call from
// concurrent dispatch workers.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.mu.Lock()
	p.pending = append(p.pending, fmt.Sprintf(format, args...))
	p.count.Add(1)
	p.mu.Unlock()
}

// Empty reports whether there are buffered diagnostics. Cheap; checked
// once per dispatch.
func (p *Printer) Empty() bool {
	return p.count.Load() == 0
}

// Reset enqueues a command that discards any buffered diagnostics.
func (p *Printer) Reset(s *device.Stream) {
	s.Enqueue("printer-reset", func() error {
		p.mu.Lock()
		p.pending = nil
		p.count.Store(0)
		p.mu.Unlock()
		return nil
	})
}

// Retrieve enqueues a drain of the buffered diagnostics; each message is
// emitted through the logger once prior device work has retired.
func (p *Printer) Retrieve(s *device.Stream) {
	s.Enqueue("printer-retrieve", func() error {
		p.mu.Lock()
		drained := p.pending
		p.pending = nil
		p.count.Store(0)
		p.mu.Unlock()

		for _, msg := range drained {
			p.logger.Debug(msg)
		}
		return nil
	})
}
