package orb

import (
	"image"
	"image/color"
	"math"
)

// SparkSize is the edge length of the default point sprite.
const SparkSize = 64

type gradientStop struct {
	offset float64
	c      [4]float64 // r, g, b in 0..255, alpha in 0..1
}

// Dark core fading to transparent; additive blending makes overlapping
// sprites glow.
var sparkStops = []gradientStop{
	{0, [4]float64{30, 30, 30, 1}},
	{0.1, [4]float64{20, 20, 20, 0.8}},
	{0.2, [4]float64{10, 10, 10, 0.3}},
	{1, [4]float64{0, 0, 0, 0}},
}

// NewSparkImage renders the radial-gradient point sprite, sampled at pixel
// centers. Pixels beyond the radius are fully transparent.
func NewSparkImage(size int) *image.NRGBA {
	if size <= 0 {
		size = SparkSize
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - half
			dy := float64(y) + 0.5 - half
			c := sampleGradient(sparkStops, math.Hypot(dx, dy)/half)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Round(c[0])),
				G: uint8(math.Round(c[1])),
				B: uint8(math.Round(c[2])),
				A: uint8(math.Round(c[3] * 255)),
			})
		}
	}
	return img
}

func sampleGradient(stops []gradientStop, pos float64) [4]float64 {
	if pos <= stops[0].offset {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		if pos > stops[i].offset {
			continue
		}
		a, b := stops[i-1], stops[i]
		f := (pos - a.offset) / (b.offset - a.offset)
		var out [4]float64
		for k := range out {
			out[k] = a.c[k] + (b.c[k]-a.c[k])*f
		}
		return out
	}
	return stops[len(stops)-1].c
}
