package integrator

import (
	"math"

	"github.com/lumen-render/lumen/pipeline"
	"github.com/lumen-render/lumen/scene"
	"github.com/lumen-render/lumen/types"
)

const (
	rayEpsilon = 1e-3
	rayFar     = 1e8

	// Bounces before russian roulette path elimination kicks in.
	minBouncesForRR = 3
)

// NewPathTracer builds the monte-carlo path-tracing variant: direct
// lighting via next-event estimation against the pipeline's emitters plus
// up to maxDepth diffuse indirect bounces.
func NewPathTracer(p *pipeline.Pipeline, desc Desc, maxDepth uint32) *Progressive {
	if maxDepth == 0 {
		maxDepth = 1
	}
	r := NewProgressive(p, desc)
	r.estimator = &pathEstimator{in: &r.Instance, maxDepth: maxDepth}
	return r
}

type pathEstimator struct {
	in       *Instance
	maxDepth uint32
}

func (e *pathEstimator) Li(camera *pipeline.Camera, frameIndex uint32, pixel types.UVec2, _ float32) types.Vec3 {
	pl := e.in.pipeline
	seq := e.in.sampler.Pixel(pixel, frameIndex)

	u, v := seq.Next2D()
	ray := camera.GenerateRay(pixel, u, v)

	var radiance types.Vec3
	throughput := types.XYZ(1, 1, 1)

	for depth := uint32(0); depth < e.maxDepth; depth++ {
		index, t, ok := closestHit(pl, ray)
		if !ok {
			radiance = radiance.Add(throughput.MulVec(pl.Background()))
			break
		}

		sph := pl.Spheres()[index]
		point := ray.PointAt(t)
		normal := point.Sub(sph.ActiveCenter).Mul(1 / sph.Radius)
		if normal.Dot(ray.Dir) > 0 {
			normal = normal.Mul(-1)
		}

		// Emitters contribute directly only on the first hit; later
		// bounces get their contribution through next-event estimation.
		if sph.Emissive() {
			if depth == 0 {
				radiance = radiance.Add(throughput.MulVec(sph.Emission))
			}
			break
		}

		if e.in.lights != nil {
			direct := e.sampleDirect(&seq, point, normal, sph.Albedo)
			radiance = radiance.Add(throughput.MulVec(direct))
		}

		// Diffuse bounce; the cosine term cancels against the pdf.
		ray = scene.Ray{Origin: point, Dir: cosineSampleHemisphere(&seq, normal)}
		throughput = throughput.MulVec(sph.Albedo)

		if depth >= minBouncesForRR {
			q := throughput.MaxComponent()
			if q < 1e-3 || seq.Next1D() >= q {
				break
			}
			throughput = throughput.Mul(1 / q)
		}
	}

	return radiance
}

// sampleDirect estimates direct lighting at a diffuse surface point by
// sampling one emitter within its subtended cone.
func (e *pathEstimator) sampleDirect(seq *Sequence, point, normal, albedo types.Vec3) types.Vec3 {
	pl := e.in.pipeline

	lightIndex, selectPdf := e.in.lights.Sample(seq.Next1D())
	light := pl.Spheres()[lightIndex]

	toLight := light.ActiveCenter.Sub(point)
	dist := toLight.Len()
	if dist <= light.Radius {
		return types.Vec3{}
	}

	sinThetaMax2 := (light.Radius * light.Radius) / (dist * dist)
	cosThetaMax := float32(math.Sqrt(float64(1 - sinThetaMax2)))

	dir := sampleCone(seq, toLight.Mul(1/dist), cosThetaMax)
	cos := dir.Dot(normal)
	if cos <= 0 {
		return types.Vec3{}
	}

	// Occlusion: the sampled direction must reach the chosen emitter.
	index, _, ok := closestHit(pl, scene.Ray{Origin: point, Dir: dir})
	if !ok || index != lightIndex {
		return types.Vec3{}
	}

	conePdf := 1 / (2 * math.Pi * float64(1-cosThetaMax))
	pdf := float32(conePdf) * selectPdf
	if pdf <= 0 {
		return types.Vec3{}
	}

	brdf := albedo.Mul(1 / math.Pi)
	return light.Emission.MulVec(brdf).Mul(cos / pdf)
}

// closestHit intersects a ray against the pipeline's primitive instances.
func closestHit(pl *pipeline.Pipeline, ray scene.Ray) (int, float32, bool) {
	best := float32(rayFar)
	bestIndex := -1
	for i, sph := range pl.Spheres() {
		if t, ok := scene.IntersectSphere(ray, sph.ActiveCenter, sph.Radius, rayEpsilon, best); ok {
			best = t
			bestIndex = i
		}
	}
	return bestIndex, best, bestIndex >= 0
}

// cosineSampleHemisphere draws a cosine-weighted direction around a normal.
func cosineSampleHemisphere(seq *Sequence, normal types.Vec3) types.Vec3 {
	u, v := seq.Next2D()
	r := float32(math.Sqrt(float64(u)))
	phi := 2 * math.Pi * float64(v)

	tangent, bitangent := buildBasis(normal)
	x := r * float32(math.Cos(phi))
	y := r * float32(math.Sin(phi))
	z := float32(math.Sqrt(math.Max(0, float64(1-u))))

	return tangent.Mul(x).Add(bitangent.Mul(y)).Add(normal.Mul(z)).Normalize()
}

// sampleCone draws a direction within the cone of half-angle
// acos(cosThetaMax) around axis.
func sampleCone(seq *Sequence, axis types.Vec3, cosThetaMax float32) types.Vec3 {
	u, v := seq.Next2D()
	cosTheta := 1 - u*(1-cosThetaMax)
	sinTheta := float32(math.Sqrt(math.Max(0, float64(1-cosTheta*cosTheta))))
	phi := 2 * math.Pi * float64(v)

	tangent, bitangent := buildBasis(axis)
	x := sinTheta * float32(math.Cos(phi))
	y := sinTheta * float32(math.Sin(phi))

	return tangent.Mul(x).Add(bitangent.Mul(y)).Add(axis.Mul(cosTheta)).Normalize()
}

// buildBasis derives an orthonormal tangent frame around a unit vector.
func buildBasis(n types.Vec3) (types.Vec3, types.Vec3) {
	var helper types.Vec3
	if math.Abs(float64(n[0])) > 0.9 {
		helper = types.XYZ(0, 1, 0)
	} else {
		helper = types.XYZ(1, 0, 0)
	}
	tangent := n.Cross(helper).Normalize()
	return tangent, n.Cross(tangent)
}
