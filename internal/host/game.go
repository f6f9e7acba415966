// Package host mounts the orb in an ebiten window: the window is the
// container, Layout delivers resizes, the cursor delivers pointer moves and
// Draw drives one frame per displayed frame.
package host

import (
	"errors"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/olivierh59500/cosmic-orb-go/internal/config"
	"github.com/olivierh59500/cosmic-orb-go/internal/render"
)

// Game is an ebiten.Game and a render.Host at the same time.
type Game struct {
	cfg    config.Config
	logger *log.Logger

	renderer  *render.Renderer
	surface   *surface
	listeners map[int]render.Listener
	nextSub   int

	size           render.Size
	lastX, lastY   int
	mounted        bool // user intent; toggled with M
	background     color.Color
	attachFailures int
}

// NewGame prepares a window host. The orb is attached on the first Update
// that has a usable window size.
func NewGame(cfg config.Config, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		cfg:        cfg,
		logger:     logger,
		listeners:  make(map[int]render.Listener),
		mounted:    true,
		background: color.Black,
		lastX:      math.MinInt,
		lastY:      math.MinInt,
	}
}

// AcquireSurface implements render.Host.
func (g *Game) AcquireSurface(width, height int) (render.Surface, error) {
	s, err := newSurface(width, height)
	if err != nil {
		return nil, err
	}
	g.surface = s
	return s, nil
}

// Subscribe implements render.Host.
func (g *Game) Subscribe(l render.Listener) func() {
	id := g.nextSub
	g.nextSub++
	g.listeners[id] = l
	return func() { delete(g.listeners, id) }
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.detach()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.mounted = !g.mounted
		g.attachFailures = 0
		if !g.mounted {
			g.detach()
		}
	}

	if g.mounted && g.renderer == nil && !g.size.Empty() && g.attachFailures == 0 {
		g.attach()
	}

	// cursor coordinates are in draw-buffer pixels; listeners want logical ones
	x, y := ebiten.CursorPosition()
	if x != g.lastX || y != g.lastY {
		g.lastX, g.lastY = x, y
		ratio := g.pixelRatio()
		for _, l := range g.listeners {
			l.OnPointerMove(float64(x)/ratio, float64(y)/ratio)
		}
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	if g.renderer == nil {
		return
	}
	if err := g.renderer.Frame(); err != nil {
		if !errors.Is(err, render.ErrStopped) {
			g.logger.Printf("Frame failed: %v", err)
		}
		return
	}
	if g.surface != nil && g.surface.canvas != nil {
		screen.DrawImage(g.surface.canvas, nil)
	}
}

// Layout reports the draw-buffer size and forwards size changes as resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := render.Size{
		Width:      outsideWidth,
		Height:     outsideHeight,
		PixelRatio: ebiten.Monitor().DeviceScaleFactor(),
	}
	if size != g.size {
		g.size = size
		for _, l := range g.listeners {
			l.OnResize(size)
		}
	}

	ratio := g.pixelRatio()
	w := int(math.Round(float64(outsideWidth) * ratio))
	h := int(math.Round(float64(outsideHeight) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (g *Game) pixelRatio() float64 {
	ratio := g.size.PixelRatio
	if !(ratio > 0) {
		ratio = 1
	}
	return math.Min(ratio, g.cfg.MaxPixelRatio)
}

func (g *Game) attach() {
	r, err := render.Attach(g, g.cfg, g.size, render.WithLogger(g.logger))
	if err != nil {
		// showing an empty window is the fallback
		g.attachFailures++
		g.logger.Printf("Failed to mount orb: %v", err)
		return
	}
	g.renderer = r
	g.lastX, g.lastY = math.MinInt, math.MinInt
}

func (g *Game) detach() {
	if g.renderer == nil {
		return
	}
	st := g.renderer.Scheduler().Stats()
	if err := g.renderer.Detach(); err != nil {
		g.logger.Printf("Orb teardown incomplete: %v", err)
	}
	g.logger.Printf("Orb unmounted after %d frames (%d draw errors)", st.Frames, st.DrawErrors)
	g.renderer = nil
	g.surface = nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg config.Config, width, height int, logger *log.Logger) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Cosmic Orb")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)

	g := NewGame(cfg, logger)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
