package scene

import "errors"

var (
	ErrInvalidResolution   = errors.New("scene: camera resolution components must be positive")
	ErrInvalidSPP          = errors.New("scene: camera spp must be positive")
	ErrInvalidFOV          = errors.New("scene: camera fov must lie in (0, 180)")
	ErrMissingOutput       = errors.New("scene: camera is missing an output file")
	ErrInvalidShutterSpan  = errors.New("scene: shutter close time precedes open time")
	ErrEmptyShutter        = errors.New("scene: shutter schedule is empty")
	ErrInvalidShutterCount = errors.New("scene: shutter sample counts must be positive")
	ErrNegativeWeight      = errors.New("scene: shutter weights must be non-negative")
	ErrNoCameras           = errors.New("scene: no cameras defined")
)
