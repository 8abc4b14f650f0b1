package renderer

import "errors"

var (
	ErrUnknownVariant = errors.New("renderer: unknown integrator variant")
)
