package display

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/imgio"
	"github.com/lumen-render/lumen/log"
	"github.com/lumen-render/lumen/pipeline"
	"github.com/lumen-render/lumen/types"
)

const (
	minInterval = 1
	maxInterval = 65535
)

// Window is an opengl-backed live preview. Frames are pulled from the film
// through the stream: Update enqueues a download plus a deferred host
// callback, and presents the previous frame once that callback has retired.
// The preview therefore always lags device progress by at most one commit
// interval, and never blocks the command producer.
type Window struct {
	logger   log.Logger
	title    string
	interval uint32

	window  *glfw.Window
	texture uint32
	texFbo  uint32

	film       *pipeline.Film
	resolution types.UVec2
	staging    []types.Vec4

	// Set by a deferred stream callback once a download has retired.
	framePending atomic.Bool

	// Downloads in flight or awaiting presentation.
	outstanding atomic.Int32
}

// NewWindow creates a live preview window. The interval is the preferred
// number of dispatches between refreshes, clamped to [1, 65535]. The
// window itself is created lazily on the first Reset, on the calling
// goroutine; run the render loop on the main thread when using it.
func NewWindow(title string, interval uint32) *Window {
	if interval < minInterval {
		interval = minInterval
	}
	if interval > maxInterval {
		interval = maxInterval
	}
	return &Window{
		logger:   log.New("display"),
		title:    title,
		interval: interval,
	}
}

// Interval returns the preferred refresh interval in dispatches.
func (w *Window) Interval() uint32 {
	return w.interval
}

// ShouldClose reports whether the user asked the preview to close.
func (w *Window) ShouldClose() bool {
	return w.window != nil && w.window.ShouldClose()
}

// Reset rebinds the preview to a new camera's film. The previous camera's
// stream has fully synchronized by the time this is called, so no download
// is in flight.
func (w *Window) Reset(s *device.Stream, film *pipeline.Film) {
	w.film = film
	w.resolution = film.Resolution()
	w.staging = make([]types.Vec4, w.resolution.Area())
	w.framePending.Store(false)
	w.outstanding.Store(0)

	if w.window == nil {
		if err := w.initGL(); err != nil {
			w.logger.Warningf("preview disabled: %v", err)
			return
		}
	}
	w.window.SetSize(int(w.resolution[0]), int(w.resolution[1]))
	w.resizeTexture()
}

// Update pulls a preview frame. It presents a previously downloaded frame
// if one has retired (returning true), and enqueues the next download when
// none is in flight.
func (w *Window) Update(s *device.Stream, sampleID uint32) bool {
	if w.window == nil {
		return false
	}
	glfw.PollEvents()

	refreshed := false
	if w.framePending.Swap(false) {
		w.present()
		w.outstanding.Add(-1)
		refreshed = true
	}

	if !w.ShouldClose() && w.outstanding.Load() == 0 {
		if err := w.film.Download(s, w.staging); err == nil {
			w.outstanding.Add(1)
			s.Do(func() { w.framePending.Store(true) })
		}
	}

	return refreshed
}

// Idle settles outstanding preview frames after a camera's sample loop has
// finished. It returns true once nothing remains to present.
func (w *Window) Idle(s *device.Stream) bool {
	if w.window == nil || w.outstanding.Load() == 0 {
		return true
	}

	glfw.PollEvents()
	if w.framePending.Swap(false) {
		w.present()
		w.outstanding.Add(-1)
	}
	return w.outstanding.Load() == 0
}

// Close destroys the preview window.
func (w *Window) Close() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
		glfw.Terminate()
	}
}

func (w *Window) initGL() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("display: failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	var err error
	w.window, err = glfw.CreateWindow(int(w.resolution[0]), int(w.resolution[1]), w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("display: could not create opengl window: %w", err)
	}
	w.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("display: could not init opengl: %w", err)
	}

	gl.GenTextures(1, &w.texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	w.resizeTexture()

	gl.GenFramebuffers(1, &w.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, w.texture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	return nil
}

func (w *Window) resizeTexture() {
	if w.window == nil {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w.resolution[0]), int32(w.resolution[1]), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
}

func (w *Window) present() {
	img := imgio.Tonemap(w.staging, w.resolution)

	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w.resolution[0]), int32(w.resolution[1]), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	// Blit with a vertical flip: image rows run top-down, gl runs bottom-up.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.texFbo)
	gl.BlitFramebuffer(
		0, 0, int32(w.resolution[0]), int32(w.resolution[1]),
		0, int32(w.resolution[1]), int32(w.resolution[0]), 0,
		gl.COLOR_BUFFER_BIT, gl.LINEAR,
	)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	w.window.SwapBuffers()
}
