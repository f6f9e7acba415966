// Package headless provides a render.Host without a display. It keeps exact
// counts of every resource handed out so leaks show up in tests and
// benchmarks.
package headless

import (
	"errors"
	"image"

	"github.com/olivierh59500/cosmic-orb-go/internal/render"
)

var errReleased = errors.New("headless: resource already released")

// Counts is a snapshot of live and lifetime resource totals.
type Counts struct {
	Surfaces      int
	Textures      int
	Buffers       int
	Subscriptions int
}

// Zero reports whether nothing is live.
func (c Counts) Zero() bool {
	return c == Counts{}
}

// Host hands out in-memory surfaces. The zero value is ready to use.
type Host struct {
	// Fault injection.
	SurfaceErr error
	TextureErr error
	BufferErr  error
	DrawErr    func(frame uint64) error

	live      Counts
	acquired  Counts
	nextSub   int
	listeners map[int]render.Listener
	surfaces  []*Surface
}

// AcquireSurface implements render.Host.
func (h *Host) AcquireSurface(width, height int) (render.Surface, error) {
	if h.SurfaceErr != nil {
		return nil, h.SurfaceErr
	}
	s := &Surface{host: h, Width: width, Height: height}
	h.live.Surfaces++
	h.acquired.Surfaces++
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

// Subscribe implements render.Host. The returned func is safe to call twice.
func (h *Host) Subscribe(l render.Listener) func() {
	if h.listeners == nil {
		h.listeners = make(map[int]render.Listener)
	}
	id := h.nextSub
	h.nextSub++
	h.listeners[id] = l
	h.live.Subscriptions++
	h.acquired.Subscriptions++

	return func() {
		if _, ok := h.listeners[id]; !ok {
			return
		}
		delete(h.listeners, id)
		h.live.Subscriptions--
	}
}

// Resize delivers a resize event to every subscriber.
func (h *Host) Resize(size render.Size) {
	for _, l := range h.listeners {
		l.OnResize(size)
	}
}

// PointerMove delivers a pointer event to every subscriber.
func (h *Host) PointerMove(x, y float64) {
	for _, l := range h.listeners {
		l.OnPointerMove(x, y)
	}
}

// Live returns resources acquired and not yet released.
func (h *Host) Live() Counts { return h.live }

// Acquired returns lifetime acquisition totals.
func (h *Host) Acquired() Counts { return h.acquired }

// LastSurface returns the most recently acquired surface, or nil.
func (h *Host) LastSurface() *Surface {
	if len(h.surfaces) == 0 {
		return nil
	}
	return h.surfaces[len(h.surfaces)-1]
}

// Surface records what was drawn instead of drawing it.
type Surface struct {
	host          *Host
	Width, Height int
	Resizes       int
	Draws         uint64
	VisibleLast   int
	released      bool
}

func (s *Surface) NewTexture(img image.Image) (render.Texture, error) {
	if img == nil {
		return nil, errors.New("headless: nil texture image")
	}
	if s.released {
		return nil, errReleased
	}
	if s.host.TextureErr != nil {
		return nil, s.host.TextureErr
	}
	s.host.live.Textures++
	s.host.acquired.Textures++
	return &texture{host: s.host}, nil
}

func (s *Surface) NewPointBuffer(n int) (render.PointBuffer, error) {
	if s.released {
		return nil, errReleased
	}
	if s.host.BufferErr != nil {
		return nil, s.host.BufferErr
	}
	s.host.live.Buffers++
	s.host.acquired.Buffers++
	return &pointBuffer{host: s.host, n: n}, nil
}

func (s *Surface) Resize(width, height int) error {
	if s.released {
		return errReleased
	}
	s.Width, s.Height = width, height
	s.Resizes++
	return nil
}

func (s *Surface) Draw(call render.DrawCall) error {
	if s.released {
		return errReleased
	}
	if pb, ok := call.Buffer.(*pointBuffer); !ok || pb.released {
		return errReleased
	}
	if tex, ok := call.Texture.(*texture); !ok || tex.released {
		return errReleased
	}
	s.Draws++
	if s.host.DrawErr != nil {
		if err := s.host.DrawErr(s.Draws); err != nil {
			return err
		}
	}
	visible := 0
	for _, sp := range call.Sprites {
		if sp.Visible {
			visible++
		}
	}
	s.VisibleLast = visible
	return nil
}

func (s *Surface) Release() error {
	if s.released {
		return errReleased
	}
	s.released = true
	s.host.live.Surfaces--
	return nil
}

type texture struct {
	host     *Host
	released bool
}

func (t *texture) Release() error {
	if t.released {
		return errReleased
	}
	t.released = true
	t.host.live.Textures--
	return nil
}

type pointBuffer struct {
	host     *Host
	n        int
	released bool
}

func (b *pointBuffer) Len() int { return b.n }

func (b *pointBuffer) Release() error {
	if b.released {
		return errReleased
	}
	b.released = true
	b.host.live.Buffers--
	return nil
}
