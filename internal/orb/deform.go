package orb

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DeformParams tunes the breathing pulse and the travelling ripple.
type DeformParams struct {
	PulseSpeed     float64 // rad/s of the uniform scale oscillation
	PulseMagnitude float64
	Intensity      float64 // amplitude of the per-point ripple
	Speed          float64 // rad/s of the ripple phase
}

// Displace writes base[i] scaled by the pulse and ripple at time t into
// working[i]. It allocates nothing and depends only on its arguments.
func Displace(base, working []mgl32.Vec3, t float64, p DeformParams) {
	if len(base) != len(working) {
		panic("orb: working buffer length does not match base positions")
	}

	pulse := 1 + math.Sin(t*p.PulseSpeed)*p.PulseMagnitude
	phase := t * p.Speed

	for i, b := range base {
		dir := b.Normalize()
		offset := phase + float64(i)*0.1
		deform := math.Sin(float64(dir[0])*10+offset) *
			math.Cos(float64(dir[1])*10+offset) *
			p.Intensity

		scale := float32(pulse + deform)
		working[i] = mgl32.Vec3{b[0] * scale, b[1] * scale, b[2] * scale}
	}
}
