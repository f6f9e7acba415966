package orb

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PointCloud is the rest shape of the orb: a fixed set of points on a sphere.
// The base slice is never written after construction.
type PointCloud struct {
	Radius      float32
	LatSegments int
	LonSegments int
	base        []mgl32.Vec3
}

// NewPointCloud generates a UV sphere of (lat+1)*(lon+1) points.
// Point order is ring-major: index = ring*(lon+1) + segment, ring 0 being the
// north pole. Seam and pole points are duplicated, as in a textured sphere mesh.
func NewPointCloud(radius float32, latSegments, lonSegments int) (*PointCloud, error) {
	if latSegments <= 0 || lonSegments <= 0 {
		return nil, fmt.Errorf("%w: segments must be positive, got %dx%d", ErrInvalidConfig, latSegments, lonSegments)
	}
	r := float64(radius)
	if !(r > 0) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("%w: radius must be a positive finite number, got %v", ErrInvalidConfig, radius)
	}

	base := make([]mgl32.Vec3, 0, (latSegments+1)*(lonSegments+1))
	for ring := 0; ring <= latSegments; ring++ {
		theta := float64(ring) * math.Pi / float64(latSegments)
		sinTheta, cosTheta := math.Sincos(theta)

		for seg := 0; seg <= lonSegments; seg++ {
			phi := float64(seg) * 2 * math.Pi / float64(lonSegments)
			sinPhi, cosPhi := math.Sincos(phi)

			base = append(base, mgl32.Vec3{
				float32(-r * cosPhi * sinTheta),
				float32(r * cosTheta),
				float32(r * sinPhi * sinTheta),
			})
		}
	}

	return &PointCloud{
		Radius:      radius,
		LatSegments: latSegments,
		LonSegments: lonSegments,
		base:        base,
	}, nil
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	return len(pc.base)
}

// Base returns the rest positions. Callers must treat it as read-only.
func (pc *PointCloud) Base() []mgl32.Vec3 {
	return pc.base
}

// NewWorking allocates a buffer of the same length as the base positions,
// initialised to the rest shape.
func (pc *PointCloud) NewWorking() []mgl32.Vec3 {
	working := make([]mgl32.Vec3, len(pc.base))
	copy(working, pc.base)
	return working
}
