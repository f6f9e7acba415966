package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/olivierh59500/cosmic-orb-go/internal/orb"
)

// Pointer holds the latest pointer offset from the viewport center, in
// logical pixels.
type Pointer struct {
	X, Y float64
}

// RendererState is everything the frame loop mutates. It is owned by a
// single Scheduler; no other goroutine may touch it.
type RendererState struct {
	Cloud      *orb.PointCloud
	Working    []mgl32.Vec3
	Sprites    []orb.Sprite
	Brightness []float32
	Colors     *orb.ColorCycle
	Camera     *orb.Camera
	Shimmer    *orb.Shimmer
	Deform     orb.DeformParams
	PointSize  float32
	Opacity    float32

	Pointer  Pointer
	Viewport Size
	// draw-buffer size in physical pixels
	BufferWidth, BufferHeight int
}

// Step advances the state to elapsed time t: color, deformation, then
// camera. Projection is skipped while the draw buffer has no area.
func (s *RendererState) Step(t float64) {
	s.Colors.Update(t)
	orb.Displace(s.Cloud.Base(), s.Working, t, s.Deform)
	s.Camera.Advance(s.Pointer.Y)

	if s.BufferWidth <= 0 || s.BufferHeight <= 0 {
		return
	}
	s.Camera.Project(s.Working, s.Sprites, s.BufferWidth, s.BufferHeight, s.PointSize)
	s.Shimmer.Fill(s.Brightness, t)
}

// setViewport records a new viewport and derives the draw-buffer size,
// clamping the pixel ratio to maxRatio.
func (s *RendererState) setViewport(size Size, maxRatio float64) {
	ratio := size.PixelRatio
	if !(ratio > 0) {
		ratio = 1
	}
	ratio = math.Min(ratio, maxRatio)

	s.Viewport = size
	if size.Empty() {
		s.BufferWidth, s.BufferHeight = 0, 0
		return
	}
	s.BufferWidth = int(math.Round(float64(size.Width) * ratio))
	s.BufferHeight = int(math.Round(float64(size.Height) * ratio))
	s.Camera.SetAspect(float32(size.Width) / float32(size.Height))
}
