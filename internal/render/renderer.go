package render

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/olivierh59500/cosmic-orb-go/internal/config"
	"github.com/olivierh59500/cosmic-orb-go/internal/orb"
)

// Renderer is one mounted orb. It is created by Attach and destroyed by
// Detach; nothing survives a remount.
type Renderer struct {
	host        Host
	surface     Surface
	texture     Texture
	buffer      PointBuffer
	state       *RendererState
	scheduler   *Scheduler
	unsubscribe func()
	logger      *log.Logger
	maxRatio    float64
	detached    bool
}

type options struct {
	logger *log.Logger
	clock  Clock
}

// Option customises Attach.
type Option func(*options)

// WithLogger sends renderer warnings to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// Attach mounts a new orb on host. The host must report a non-empty size.
// Configuration problems wrap orb.ErrInvalidConfig; missing graphics
// resources come back as *ResourceError. On failure everything acquired so
// far has been released.
func Attach(host Host, cfg config.Config, size Size, opts ...Option) (*Renderer, error) {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if size.Empty() {
		return nil, &ResourceError{
			Resource: "surface",
			Err:      fmt.Errorf("container %dx%d has no drawable area", size.Width, size.Height),
		}
	}
	palette, err := orb.ParsePalette(cfg.Palette)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	colors, err := orb.NewColorCycle(palette, orb.ColorParams{
		ChangeInterval: cfg.ColorChangeInterval,
		CycleSpeed:     cfg.ColorCycleSpeed,
		PulseSpeed:     cfg.PulseSpeed,
	}, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return nil, err
	}

	cloud, err := orb.NewPointCloud(cfg.Radius, cfg.Segments, cfg.Segments)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		host:     host,
		logger:   o.logger,
		maxRatio: cfg.MaxPixelRatio,
		state: &RendererState{
			Cloud:      cloud,
			Working:    cloud.NewWorking(),
			Sprites:    make([]orb.Sprite, cloud.Len()),
			Brightness: make([]float32, cloud.Len()),
			Colors:     colors,
			Camera:     orb.NewCamera(cfg.CameraDistance, cfg.RotationSpeed, 1),
			Shimmer:    orb.NewShimmer(cfg.ShimmerAmount, cfg.ShimmerSpeed, int64(seed)),
			Deform: orb.DeformParams{
				PulseSpeed:     cfg.PulseSpeed,
				PulseMagnitude: cfg.PulseMagnitude,
				Intensity:      cfg.DeformIntensity,
				Speed:          cfg.DeformSpeed,
			},
			PointSize: cfg.PointSize,
			Opacity:   cfg.Opacity,
		},
	}
	r.state.setViewport(size, r.maxRatio)

	r.surface, err = host.AcquireSurface(r.state.BufferWidth, r.state.BufferHeight)
	if err != nil {
		return nil, &ResourceError{Resource: "surface", Err: err}
	}
	r.texture, err = r.surface.NewTexture(orb.NewSparkImage(orb.SparkSize))
	if err != nil {
		r.abort()
		return nil, &ResourceError{Resource: "spark texture", Err: err}
	}
	r.buffer, err = r.surface.NewPointBuffer(cloud.Len())
	if err != nil {
		r.abort()
		return nil, &ResourceError{Resource: "point buffer", Err: err}
	}

	clock := o.clock
	if clock == nil {
		clock = NewWallClock()
	}
	r.scheduler = &Scheduler{
		state:   r.state,
		surface: r.surface,
		texture: r.texture,
		buffer:  r.buffer,
		clock:   clock,
		logger:  r.logger,
	}
	r.unsubscribe = host.Subscribe(r)

	return r, nil
}

// abort releases whatever a failed Attach managed to acquire.
func (r *Renderer) abort() {
	if err := r.release(); err != nil {
		r.logger.Printf("Failed to release partially mounted orb: %v", err)
	}
	r.detached = true
}

// Frame is the host's per-displayed-frame hook.
func (r *Renderer) Frame() error {
	if r.detached {
		return ErrStopped
	}
	return r.scheduler.Tick()
}

// Scheduler exposes the frame loop, e.g. to drive it from a ticker.
func (r *Renderer) Scheduler() *Scheduler {
	return r.scheduler
}

// State exposes the frame state for inspection. It must only be read from
// the frame thread.
func (r *Renderer) State() *RendererState {
	return r.state
}

// OnResize recomputes the draw buffer and camera aspect. Geometry is left
// alone. Zero-area sizes pause drawing until a usable size arrives.
func (r *Renderer) OnResize(size Size) {
	if r.detached {
		return
	}
	r.state.setViewport(size, r.maxRatio)
	if size.Empty() || r.state.BufferWidth <= 0 || r.state.BufferHeight <= 0 {
		return
	}
	if err := r.surface.Resize(r.state.BufferWidth, r.state.BufferHeight); err != nil {
		r.logger.Printf("Failed to resize draw buffer to %dx%d: %v", r.state.BufferWidth, r.state.BufferHeight, err)
	}
}

// OnPointerMove records the pointer as an offset from the viewport center.
func (r *Renderer) OnPointerMove(x, y float64) {
	if r.detached {
		return
	}
	r.state.Pointer = Pointer{
		X: x - float64(r.state.Viewport.Width)/2,
		Y: y - float64(r.state.Viewport.Height)/2,
	}
}

// Detach stops the loop, then releases the texture, point buffer and surface,
// then drops the event subscription. Every step is attempted; failures are
// joined into the returned error. Calling Detach again does nothing.
func (r *Renderer) Detach() error {
	if r.detached {
		return nil
	}
	r.detached = true
	r.scheduler.Stop()

	err := r.release()
	r.state = nil
	return err
}

func (r *Renderer) release() error {
	var errs []error
	if r.texture != nil {
		if err := r.texture.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release spark texture: %w", err))
		}
		r.texture = nil
	}
	if r.buffer != nil {
		if err := r.buffer.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release point buffer: %w", err))
		}
		r.buffer = nil
	}
	if r.surface != nil {
		if err := r.surface.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release surface: %w", err))
		}
		r.surface = nil
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	return errors.Join(errs...)
}
