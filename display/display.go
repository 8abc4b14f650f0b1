// Package display provides the optional live-preview consumer of partially
// accumulated films.
package display

import (
	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/pipeline"
)

// Display is a live preview driven by the render scheduler. Reset rebinds
// the preview to a camera's film, Update pulls a partially accumulated
// frame (returning true when a visual refresh actually happened), Idle
// settles outstanding frames after a camera finishes and ShouldClose
// reports a user shutdown request.
//
// All methods are called from the scheduler's host goroutine; previews only
// read film data the stream has already made visible.
type Display interface {
	Reset(s *device.Stream, film *pipeline.Film)
	Idle(s *device.Stream) bool
	Update(s *device.Stream, sampleID uint32) bool
	ShouldClose() bool

	// Interval is the preferred number of dispatches between preview
	// refreshes. Always >= 1.
	Interval() uint32
}
