package orb

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorParams tunes the palette cycle.
type ColorParams struct {
	ChangeInterval float64 // seconds between target changes
	CycleSpeed     float64 // lerp factor applied every frame
	PulseSpeed     float64 // rad/s of the lightness pulse
}

// ColorCycle drifts the display color towards a randomly chosen palette
// entry, picking a new target every ChangeInterval seconds.
type ColorCycle struct {
	palette        []colorful.Color
	params         ColorParams
	rng            *rand.Rand
	current        int
	next           int
	nextChangeTime float64
	display        colorful.Color
}

// ParsePalette converts "#rrggbb" strings into colors.
func ParsePalette(hexes []string) ([]colorful.Color, error) {
	palette := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("%w: palette entry %q: %v", ErrInvalidConfig, h, err)
		}
		palette = append(palette, c)
	}
	return palette, nil
}

// NewColorCycle starts on palette[0] heading towards palette[1], with the
// first target change due as soon as time moves past zero.
func NewColorCycle(palette []colorful.Color, p ColorParams, rng *rand.Rand) (*ColorCycle, error) {
	if len(palette) < 2 {
		return nil, fmt.Errorf("%w: palette needs at least 2 colors, got %d", ErrInvalidConfig, len(palette))
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &ColorCycle{
		palette: append([]colorful.Color(nil), palette...),
		params:  p,
		rng:     rng,
		current: 0,
		next:    1,
		display: palette[0],
	}, nil
}

// Update advances the cycle to elapsed time t and returns the display color.
func (c *ColorCycle) Update(t float64) colorful.Color {
	if t > c.nextChangeTime {
		c.current = c.next
		c.next = c.pickOther(c.current)
		c.nextChangeTime = t + c.params.ChangeInterval
	}

	target := c.palette[c.next]
	h, s, _ := c.display.BlendRgb(target, c.params.CycleSpeed).Hsl()
	c.display = colorful.Hsl(h, s, PulseLightness(t, c.params.PulseSpeed))

	return c.display
}

// pickOther draws uniformly from the palette, resampling until the draw
// differs from exclude.
func (c *ColorCycle) pickOther(exclude int) int {
	n := c.rng.IntN(len(c.palette))
	for n == exclude {
		n = c.rng.IntN(len(c.palette))
	}
	return n
}

// PulseLightness is the HSL lightness the display color carries at time t.
func PulseLightness(t, speed float64) float64 {
	return 0.2 + math.Sin(t*speed)*0.1
}

func (c *ColorCycle) Display() colorful.Color { return c.display }
func (c *ColorCycle) Current() int { return c.current }
func (c *ColorCycle) Next() int { return c.next }
func (c *ColorCycle) NextChangeTime() float64 { return c.nextChangeTime }
