package pipeline

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/log"
	"github.com/lumen-render/lumen/scene"
	"github.com/lumen-render/lumen/types"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		Cameras: []*scene.CameraNode{
			{
				LookAt:     types.XYZ(0, 0, -1),
				Up:         types.XYZ(0, 1, 0),
				FOV:        45,
				Resolution: types.UVec2{8, 8},
				SPP:        4,
				Output:     "out.png",
			},
		},
		Spheres: []scene.Sphere{
			{Center: types.XYZ(0, 0, -3), Velocity: types.XYZ(1, 0, 0), Radius: 1, Albedo: types.XYZ(1, 1, 1)},
		},
	}
}

func TestPipelineUpdateMovesSpheres(t *testing.T) {
	dev := device.New("test", 2)
	s := dev.CreateStream()
	defer s.Close()

	p, err := New(dev, testScene())
	if err != nil {
		t.Fatal(err)
	}

	p.Update(s, 0.5)
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}

	expected := types.XYZ(0.5, 0, -3)
	if got := p.Spheres()[0].ActiveCenter; got != expected {
		t.Fatalf("expected sphere center %v at t=0.5; got %v", expected, got)
	}
}

func TestPipelineRejectsInvalidScene(t *testing.T) {
	sc := testScene()
	sc.Cameras[0].SPP = 0

	_, err := New(device.New("test", 2), sc)
	if !errors.Is(err, scene.ErrInvalidSPP) {
		t.Fatalf("expected ErrInvalidSPP; got %v", err)
	}
}

func TestFilmLifecycle(t *testing.T) {
	dev := device.New("test", 2)
	s := dev.CreateStream()
	defer s.Close()

	p, err := New(dev, testScene())
	if err != nil {
		t.Fatal(err)
	}
	film := p.Camera(0).Film()

	// Download and release before prepare must fail.
	dst := make([]types.Vec4, film.Resolution().Area())
	if err := film.Download(s, dst); !errors.Is(err, ErrFilmNotPrepared) {
		t.Fatalf("expected ErrFilmNotPrepared; got %v", err)
	}
	if err := film.Release(); !errors.Is(err, ErrFilmNotPrepared) {
		t.Fatalf("expected ErrFilmNotPrepared; got %v", err)
	}

	if err := film.Prepare(s); err != nil {
		t.Fatal(err)
	}
	if err := film.Prepare(s); !errors.Is(err, ErrFilmAlreadyPrepared) {
		t.Fatalf("expected ErrFilmAlreadyPrepared; got %v", err)
	}

	s.Do(func() {
		film.Accumulate(types.UVec2{1, 1}, types.XYZW(1, 0, 0, 1))
	})
	if err := film.Download(s, dst); err != nil {
		t.Fatal(err)
	}
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}

	if dst[1*8+1] != types.XYZW(1, 0, 0, 1) {
		t.Fatalf("expected accumulated pixel value; got %v", dst[9])
	}

	if err := film.Release(); err != nil {
		t.Fatal(err)
	}
	// Released films can be prepared again by the next render pass.
	if err := film.Prepare(s); err != nil {
		t.Fatal(err)
	}
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}
}

func TestPrinterDrain(t *testing.T) {
	dev := device.New("test", 2)
	s := dev.CreateStream()
	defer s.Close()

	p, err := New(dev, testScene())
	if err != nil {
		t.Fatal(err)
	}
	printer := p.Printer()

	if !printer.Empty() {
		t.Fatal("expected fresh printer to be empty")
	}

	s.Do(func() {
		printer.Printf("nan radiance at pixel %d,%d", 3, 4)
	})
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}
	if printer.Empty() {
		t.Fatal("expected printer to buffer the message")
	}

	printer.Retrieve(s)
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}
	if !printer.Empty() {
		t.Fatal("expected retrieve to drain the printer")
	}
}

func TestPrinterEmptyTracksPendingUnderConcurrentWrites(t *testing.T) {
	var captured bytes.Buffer
	log.SetSink(&captured)
	log.SetLevel(log.Debug)
	defer func() {
		log.SetSink(os.Stderr)
		log.SetLevel(log.Notice)
	}()

	dev := device.New("test", 4)
	s := dev.CreateStream()
	defer s.Close()

	p, err := New(dev, testScene())
	if err != nil {
		t.Fatal(err)
	}
	printer := p.Printer()

	// Dispatch workers keep appending while the host interleaves retrieves.
	// Once all producers have finished, Empty must agree with the buffer:
	// a final drain pass guided by Empty may not strand a message.
	var wg sync.WaitGroup
	for worker := 0; worker < 4; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for message := 0; message < 50; message++ {
				printer.Printf("diag-%d-%d", worker, message)
			}
		}(worker)
	}
	for drain := 0; drain < 10; drain++ {
		printer.Retrieve(s)
	}
	wg.Wait()

	if !printer.Empty() {
		printer.Retrieve(s)
	}
	if err := s.Synchronize(); err != nil {
		t.Fatal(err)
	}

	if !printer.Empty() {
		t.Fatal("expected the printer to report empty after the final drain")
	}
	if got := strings.Count(captured.String(), "diag-"); got != 200 {
		t.Fatalf("expected all 200 diagnostics to be drained; got %d", got)
	}
}

func TestGenerateRayCenterPixel(t *testing.T) {
	p, err := New(device.New("test", 2), testScene())
	if err != nil {
		t.Fatal(err)
	}

	cam := p.Camera(0)
	ray := cam.GenerateRay(types.UVec2{3, 3}, 1, 1)

	// The ray through the exact frame center looks straight down -Z.
	expected := types.XYZ(0, 0, -1)
	if ray.Dir.Sub(expected).Len() > 1e-5 {
		t.Fatalf("expected center ray direction %v; got %v", expected, ray.Dir)
	}
}
