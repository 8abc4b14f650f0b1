package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Reporter consumes fractional completion values in [0, 1].
type Reporter interface {
	Update(fraction float64)
	Done()
}

// Width in characters of the bar body.
const barWidth = 40

// Bar is a textual progress bar that redraws in place on a terminal. It is
// safe for concurrent use: fractions arrive both from the render loop and
// from deferred stream callbacks running on the stream worker.
type Bar struct {
	sink io.Writer

	mu   sync.Mutex
	last float64
	done bool
}

// NewBar creates a progress bar writing to stderr.
func NewBar() *Bar {
	return NewBarWithSink(os.Stderr)
}

// NewBarWithSink creates a progress bar writing to the given sink.
func NewBarWithSink(sink io.Writer) *Bar {
	return &Bar{sink: sink}
}

// Update redraws the bar. Values are clamped to [0, 1] and never move the
// bar backwards.
func (b *Bar) Update(fraction float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.redraw(fraction)
}

// Done completes the bar at 100% and terminates the line.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.redraw(1)
	b.done = true
	fmt.Fprintln(b.sink)
}

// redraw clamps the fraction and renders the bar. Callers hold mu.
func (b *Bar) redraw(fraction float64) {
	if fraction < b.last {
		fraction = b.last
	}
	if fraction > 1 {
		fraction = 1
	}
	b.last = fraction

	filled := int(fraction * barWidth)
	empty := barWidth - filled
	fmt.Fprintf(b.sink, "\r[%s%s] %5.1f %%", strings.Repeat("=", filled), strings.Repeat(" ", empty), fraction*100)
}
