package scene

import (
	"math"

	"github.com/lumen-render/lumen/types"
)

// Ray is a parametric ray with normalized direction.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// PointAt returns the point at parameter t along the ray.
func (r Ray) PointAt(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectSphere solves the ray/sphere quadratic against a sphere centered
// at center. It returns the nearest hit parameter inside (tMin, tMax).
func IntersectSphere(r Ray, center types.Vec3, radius, tMin, tMax float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t <= tMin || t >= tMax {
		t = -b + sqrtDisc
		if t <= tMin || t >= tMax {
			return 0, false
		}
	}
	return t, true
}
