package orb

import (
	"github.com/aquilax/go-perlin"
)

// Shimmer modulates per-point brightness with smooth 2D noise over
// (point index, time). It never moves points.
type Shimmer struct {
	Amount float64
	Speed  float64
	noise  *perlin.Perlin
}

// NewShimmer seeds a noise field. Amount 0 disables the effect.
func NewShimmer(amount, speed float64, seed int64) *Shimmer {
	return &Shimmer{
		Amount: amount,
		Speed:  speed,
		noise:  perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Fill writes a brightness factor for every point into out.
func (s *Shimmer) Fill(out []float32, t float64) {
	if s == nil || s.Amount == 0 {
		for i := range out {
			out[i] = 1
		}
		return
	}
	phase := t * s.Speed
	for i := range out {
		v := 1 + s.Amount*s.noise.Noise2D(float64(i)*0.05, phase)
		if v < 0 {
			v = 0
		}
		out[i] = float32(v)
	}
}
