package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumen-render/lumen/types"
)

// The on-disk scene description. Fields absent from the file keep their
// zero values; defaults are applied after parsing.
type sceneFile struct {
	Background [3]float32   `json:"background"`
	Cameras    []cameraFile `json:"cameras"`
	Spheres    []sphereFile `json:"spheres"`
}

type cameraFile struct {
	Position      [3]float32 `json:"position"`
	LookAt        [3]float32 `json:"look_at"`
	Up            [3]float32 `json:"up"`
	FOV           float32    `json:"fov"`
	Resolution    [2]uint32  `json:"resolution"`
	SPP           uint32     `json:"spp"`
	Shutter       [2]float32 `json:"shutter"`
	ShutterPoints uint32     `json:"shutter_points"`
	Output        string     `json:"output"`
}

type sphereFile struct {
	Center   [3]float32 `json:"center"`
	Velocity [3]float32 `json:"velocity"`
	Radius   float32    `json:"radius"`
	Albedo   [3]float32 `json:"albedo"`
	Emission [3]float32 `json:"emission"`
}

// Read loads and validates a scene description from a JSON file.
func Read(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON scene description.
func Parse(data []byte) (*Scene, error) {
	var sf sceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}

	sc := &Scene{
		Background: vec3(sf.Background),
	}

	for _, cf := range sf.Cameras {
		node := &CameraNode{
			Position:      vec3(cf.Position),
			LookAt:        vec3(cf.LookAt),
			Up:            vec3(cf.Up),
			FOV:           cf.FOV,
			Resolution:    types.UVec2(cf.Resolution),
			SPP:           cf.SPP,
			ShutterOpen:   cf.Shutter[0],
			ShutterClose:  cf.Shutter[1],
			ShutterPoints: cf.ShutterPoints,
			Output:        cf.Output,
		}
		if node.Up == (types.Vec3{}) {
			node.Up = types.XYZ(0, 1, 0)
		}
		if node.FOV == 0 {
			node.FOV = 45
		}
		sc.Cameras = append(sc.Cameras, node)
	}

	for _, pf := range sf.Spheres {
		sc.Spheres = append(sc.Spheres, Sphere{
			Center:   vec3(pf.Center),
			Velocity: vec3(pf.Velocity),
			Radius:   pf.Radius,
			Albedo:   vec3(pf.Albedo),
			Emission: vec3(pf.Emission),
		})
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func vec3(v [3]float32) types.Vec3 {
	return types.Vec3(v)
}
