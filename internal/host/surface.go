package host

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/olivierh59500/cosmic-orb-go/internal/render"
)

// maxPoints keeps 4 vertices per point addressable by uint16 indices.
const maxPoints = math.MaxUint16 / 4

var errReleased = errors.New("resource already released")

// surface renders into an offscreen canvas sized to the draw buffer. The
// game copies the canvas to the screen after each frame.
type surface struct {
	canvas *ebiten.Image
	op     ebiten.DrawTrianglesOptions
}

func newSurface(width, height int) (*surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d", width, height)
	}
	return &surface{
		canvas: ebiten.NewImage(width, height),
		op: ebiten.DrawTrianglesOptions{
			Blend:  ebiten.BlendLighter,
			Filter: ebiten.FilterLinear,
		},
	}, nil
}

func (s *surface) NewTexture(img image.Image) (render.Texture, error) {
	if s.canvas == nil {
		return nil, errReleased
	}
	b := img.Bounds()
	return &texture{
		img:    ebiten.NewImageFromImage(img),
		width:  float32(b.Dx()),
		height: float32(b.Dy()),
	}, nil
}

func (s *surface) NewPointBuffer(n int) (render.PointBuffer, error) {
	if s.canvas == nil {
		return nil, errReleased
	}
	if n <= 0 || n > maxPoints {
		return nil, fmt.Errorf("point count %d outside [1, %d]", n, maxPoints)
	}

	indices := make([]uint16, 0, n*6)
	for i := 0; i < n; i++ {
		v := uint16(i * 4)
		indices = append(indices, v, v+1, v+2, v+1, v+3, v+2)
	}
	return &pointBuffer{
		vertices: make([]ebiten.Vertex, n*4),
		indices:  indices,
	}, nil
}

func (s *surface) Resize(width, height int) error {
	if s.canvas == nil {
		return errReleased
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvas size %dx%d", width, height)
	}
	if b := s.canvas.Bounds(); b.Dx() == width && b.Dy() == height {
		return nil
	}
	s.canvas.Deallocate()
	s.canvas = ebiten.NewImage(width, height)
	return nil
}

// Draw writes every sprite as a textured quad and submits them in one
// DrawTriangles call. Hidden sprites collapse to a transparent point.
func (s *surface) Draw(call render.DrawCall) (err error) {
	if s.canvas == nil {
		return errReleased
	}
	pb, ok := call.Buffer.(*pointBuffer)
	if !ok || pb.vertices == nil {
		return errReleased
	}
	tex, ok := call.Texture.(*texture)
	if !ok || tex.img == nil {
		return errReleased
	}
	if len(call.Sprites) > len(pb.vertices)/4 {
		return fmt.Errorf("%d sprites for a %d point buffer", len(call.Sprites), len(pb.vertices)/4)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw triangles: %v", r)
		}
	}()

	c := call.Color.Clamped()
	cr, cg, cb := float32(c.R), float32(c.G), float32(c.B)

	for i, sp := range call.Sprites {
		quad := pb.vertices[i*4 : i*4+4]
		if !sp.Visible || sp.Size <= 0 {
			for k := range quad {
				quad[k] = ebiten.Vertex{DstX: sp.X, DstY: sp.Y}
			}
			continue
		}

		alpha := call.Opacity
		if i < len(call.Brightness) {
			alpha *= call.Brightness[i]
		}
		half := sp.Size / 2
		for k := range quad {
			dx, dy := float32(k%2), float32(k/2)
			quad[k] = ebiten.Vertex{
				DstX:   sp.X - half + dx*sp.Size,
				DstY:   sp.Y - half + dy*sp.Size,
				SrcX:   dx * tex.width,
				SrcY:   dy * tex.height,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: alpha,
			}
		}
	}

	n := len(call.Sprites)
	s.canvas.Clear()
	s.canvas.DrawTriangles(pb.vertices[:n*4], pb.indices[:n*6], tex.img, &s.op)
	return nil
}

func (s *surface) Release() error {
	if s.canvas == nil {
		return errReleased
	}
	s.canvas.Deallocate()
	s.canvas = nil
	return nil
}

type texture struct {
	img           *ebiten.Image
	width, height float32
}

func (t *texture) Release() error {
	if t.img == nil {
		return errReleased
	}
	t.img.Deallocate()
	t.img = nil
	return nil
}

type pointBuffer struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

func (b *pointBuffer) Len() int { return len(b.vertices) / 4 }

func (b *pointBuffer) Release() error {
	if b.vertices == nil {
		return errReleased
	}
	b.vertices = nil
	b.indices = nil
	return nil
}
