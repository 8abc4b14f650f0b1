package device

// The backlog allowed between the host and the stream worker before
// Enqueue applies backpressure.
const streamQueueDepth = 256

type command struct {
	label string

	// Device-side work. Nil for barriers.
	fn func() error

	// Barrier reply channel. The worker publishes (and clears) the first
	// error recorded since the previous barrier.
	sync chan error
}

// Stream is an ordered queue of device commands serviced by a single worker
// goroutine. Commands enqueued in order execute in that order; the host does
// not block on an enqueued command unless it issues a Synchronize barrier.
//
// Streams assume a single producer. The first command failure latches: the
// worker skips all subsequent commands until a barrier retires, at which
// point the error is surfaced to the host and the stream is clean again.
type Stream struct {
	device *Device
	cmds   chan command
	parked chan struct{}

	// Enqueue-order trace used by tests and debug tooling. Producer-side
	// state, guarded by the single-producer contract.
	tracing bool
	trace   []string

	closed bool
}

// CreateStream builds a command stream backed by a dedicated worker
// goroutine.
func (d *Device) CreateStream() *Stream {
	s := &Stream{
		device: d,
		cmds:   make(chan command, streamQueueDepth),
		parked: make(chan struct{}),
	}

	go s.work()
	return s
}

func (s *Stream) work() {
	defer close(s.parked)

	var latched error
	for cmd := range s.cmds {
		if cmd.sync != nil {
			cmd.sync <- latched
			latched = nil
			continue
		}
		if latched != nil {
			// Skip work enqueued after a failure; the error surfaces
			// at the next barrier.
			continue
		}
		if err := cmd.fn(); err != nil {
			latched = err
		}
	}
}

// Enqueue submits a device command. The label identifies the command in
// enqueue-order traces.
func (s *Stream) Enqueue(label string, fn func() error) {
	if s.closed {
		panic(ErrStreamClosed)
	}
	if s.tracing {
		s.trace = append(s.trace, label)
	}
	s.cmds <- command{label: label, fn: fn}
}

// Do submits a deferred host callback. It executes in stream order, i.e.
// only after all device work enqueued before it has retired, without
// blocking the producer.
func (s *Stream) Do(fn func()) {
	s.Enqueue("callback", func() error {
		fn()
		return nil
	})
}

// Synchronize enqueues a barrier and blocks until every command enqueued
// before it has retired. It returns the first error recorded since the
// previous barrier and resets the stream's error state.
func (s *Stream) Synchronize() error {
	if s.closed {
		panic(ErrStreamClosed)
	}
	if s.tracing {
		s.trace = append(s.trace, "barrier")
	}
	reply := make(chan error, 1)
	s.cmds <- command{sync: reply}
	return <-reply
}

// Close drains the stream and stops the worker. Pending errors are
// discarded; callers that care issue a Synchronize first.
func (s *Stream) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.cmds)
	<-s.parked
}

// EnableTrace turns on enqueue-order command tracing.
func (s *Stream) EnableTrace() {
	s.tracing = true
}

// Trace returns a copy of the enqueue-order command labels recorded so far.
func (s *Stream) Trace() []string {
	out := make([]string, len(s.trace))
	copy(out, s.trace)
	return out
}
