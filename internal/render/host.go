package render

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivierh59500/cosmic-orb-go/internal/orb"
)

// Size is the viewport state delivered by the host: logical pixels plus the
// display's device pixel ratio.
type Size struct {
	Width, Height int
	PixelRatio    float64
}

// Empty reports whether the viewport has no drawable area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Host is the environment that mounts a renderer: it hands out drawing
// surfaces and delivers pointer and resize events.
type Host interface {
	AcquireSurface(width, height int) (Surface, error)
	Subscribe(l Listener) (unsubscribe func())
}

// Listener receives host events. Both are last-value overwrites.
type Listener interface {
	OnResize(size Size)
	OnPointerMove(x, y float64)
}

// Surface is a drawing target plus the GPU resources allocated on it.
type Surface interface {
	NewTexture(img image.Image) (Texture, error)
	NewPointBuffer(n int) (PointBuffer, error)
	Resize(width, height int) error
	Draw(call DrawCall) error
	Release() error
}

// Texture is a GPU-resident image.
type Texture interface {
	Release() error
}

// PointBuffer is GPU-side storage for a fixed number of point sprites.
type PointBuffer interface {
	Len() int
	Release() error
}

// DrawCall is everything one frame needs: a single instanced draw of the
// sprites into Buffer, textured with Texture and tinted with Color.
type DrawCall struct {
	Buffer     PointBuffer
	Texture    Texture
	Sprites    []orb.Sprite
	Brightness []float32
	Color      colorful.Color
	Opacity    float32
}
