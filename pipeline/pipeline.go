package pipeline

import (
	"math"

	"github.com/lumen-render/lumen/device"
	"github.com/lumen-render/lumen/scene"
	"github.com/lumen-render/lumen/types"
)

// Pipeline binds a scene description to a device: it owns the per-camera
// instances (in registration order), the device-side copies of the scene
// primitives and the diagnostic printer. Time-dependent state is advanced
// through Update, which executes in stream order ahead of the dispatches
// that depend on it.
type Pipeline struct {
	dev     *device.Device
	sc      *scene.Scene
	cameras []*Camera
	spheres []SphereInstance
	printer *Printer
}

// SphereInstance is the device-resident state of one scene sphere. Center
// tracks the position at the pipeline's current time.
type SphereInstance struct {
	scene.Sphere

	// Position at the current pipeline time.
	ActiveCenter types.Vec3
}

// New instances a scene onto a device. The scene is validated before any
// device state is built.
func New(dev *device.Device, sc *scene.Scene) (*Pipeline, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		dev:     dev,
		sc:      sc,
		printer: newPrinter(),
	}

	for _, node := range sc.Cameras {
		p.cameras = append(p.cameras, newCamera(dev, node))
	}
	for _, sph := range sc.Spheres {
		p.spheres = append(p.spheres, SphereInstance{Sphere: sph, ActiveCenter: sph.Center})
	}

	return p, nil
}

// Device returns the pipeline's device.
func (p *Pipeline) Device() *device.Device {
	return p.dev
}

// CameraCount returns the number of cameras registered with the pipeline.
func (p *Pipeline) CameraCount() int {
	return len(p.cameras)
}

// Camera returns the camera instance at the given registration index.
func (p *Pipeline) Camera(index int) *Camera {
	return p.cameras[index]
}

// HasLighting reports whether the instanced scene contains emitters.
func (p *Pipeline) HasLighting() bool {
	return p.sc.HasLighting()
}

// Printer returns the device-side diagnostic buffer.
func (p *Pipeline) Printer() *Printer {
	return p.printer
}

// Background returns the radiance for escaped rays. Device side.
func (p *Pipeline) Background() types.Vec3 {
	return p.sc.Background
}

// Spheres returns the device-resident primitive state. Device side; the
// slice reflects the pipeline time of the last retired Update.
func (p *Pipeline) Spheres() []SphereInstance {
	return p.spheres
}

// Update enqueues a scene-time update. It must be enqueued before any
// dispatch that samples the new time, which stream FIFO ordering then
// guarantees.
func (p *Pipeline) Update(s *device.Stream, time float32) {
	s.Enqueue("update", func() error {
		for i := range p.spheres {
			p.spheres[i].ActiveCenter = p.spheres[i].CenterAt(time)
		}
		return nil
	})
}

// Camera is the per-render instance of a camera node: the node description,
// the film and a precomputed ray-generation basis.
type Camera struct {
	node *scene.CameraNode
	film *Film

	origin  types.Vec3
	forward types.Vec3
	right   types.Vec3
	up      types.Vec3
	halfW   float32
	halfH   float32
}

func newCamera(dev *device.Device, node *scene.CameraNode) *Camera {
	forward := node.LookAt.Sub(node.Position).Normalize()
	right := forward.Cross(node.Up).Normalize()
	up := right.Cross(forward)

	aspect := float32(node.Resolution[0]) / float32(node.Resolution[1])
	halfH := float32(math.Tan(float64(node.FOV) * math.Pi / 360))

	return &Camera{
		node:    node,
		film:    newFilm(dev, node.Resolution),
		origin:  node.Position,
		forward: forward,
		right:   right,
		up:      up,
		halfW:   halfH * aspect,
		halfH:   halfH,
	}
}

// Node returns the camera's scene description.
func (c *Camera) Node() *scene.CameraNode {
	return c.node
}

// Film returns the camera's accumulation buffer.
func (c *Camera) Film() *Film {
	return c.film
}

// GenerateRay builds a primary ray through the given pixel. u and v jitter
// the sample position inside the pixel footprint.
func (c *Camera) GenerateRay(pixel types.UVec2, u, v float32) scene.Ray {
	res := c.node.Resolution
	ndcX := (float32(pixel[0])+u)/float32(res[0])*2 - 1
	ndcY := 1 - (float32(pixel[1])+v)/float32(res[1])*2

	dir := c.forward.
		Add(c.right.Mul(ndcX * c.halfW)).
		Add(c.up.Mul(ndcY * c.halfH)).
		Normalize()

	return scene.Ray{Origin: c.origin, Dir: dir}
}
