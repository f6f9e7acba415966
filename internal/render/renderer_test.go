package render_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/olivierh59500/cosmic-orb-go/internal/config"
	"github.com/olivierh59500/cosmic-orb-go/internal/headless"
	"github.com/olivierh59500/cosmic-orb-go/internal/orb"
	"github.com/olivierh59500/cosmic-orb-go/internal/render"
)

type fakeClock struct{ t float64 }

func (c *fakeClock) Elapsed() float64 { return c.t }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Segments = 8
	cfg.Seed = 1
	return cfg
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func attach(t *testing.T, h *headless.Host, clock render.Clock) *render.Renderer {
	t.Helper()
	r, err := render.Attach(h, testConfig(), render.Size{Width: 400, Height: 300, PixelRatio: 1},
		render.WithClock(clock), render.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return r
}

func TestAttachAcquiresEverything(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{})

	if got := h.Live(); got != (headless.Counts{Surfaces: 1, Textures: 1, Buffers: 1, Subscriptions: 1}) {
		t.Fatalf("Live = %+v", got)
	}
	if n := r.State().Cloud.Len(); n != 81 {
		t.Errorf("point count = %d, want 81", n)
	}
	if err := r.Detach(); err != nil {
		t.Fatal(err)
	}
	if !h.Live().Zero() {
		t.Errorf("leaked after Detach: %+v", h.Live())
	}
}

func TestAttachPixelRatioClamped(t *testing.T) {
	h := &headless.Host{}
	r, err := render.Attach(h, testConfig(), render.Size{Width: 100, Height: 50, PixelRatio: 3},
		render.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Detach()

	s := h.LastSurface()
	if s.Width != 200 || s.Height != 100 {
		t.Errorf("surface = %dx%d, want 200x100", s.Width, s.Height)
	}
}

func TestFrameDrawsOncePerTick(t *testing.T) {
	h := &headless.Host{}
	clock := &fakeClock{}
	r := attach(t, h, clock)
	defer r.Detach()

	for i := range 5 {
		clock.t = float64(i) / 60
		if err := r.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if d := h.LastSurface().Draws; d != 5 {
		t.Errorf("draws = %d, want 5", d)
	}
	if h.LastSurface().VisibleLast != 81 {
		t.Errorf("visible sprites = %d, want 81", h.LastSurface().VisibleLast)
	}
	st := r.Scheduler().Stats()
	if st.Frames != 5 || st.Draws != 5 {
		t.Errorf("stats = %+v", st)
	}
}

func TestResizeKeepsGeometry(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{t: 1})
	defer r.Detach()

	base := r.State().Cloud.Base()
	snapshot := append(base[:0:0], base...)
	working := &r.State().Working[0]

	h.Resize(render.Size{Width: 1024, Height: 256, PixelRatio: 1})
	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}

	after := r.State().Cloud.Base()
	if &after[0] != &base[0] || len(after) != len(snapshot) {
		t.Fatal("base positions were reallocated by resize")
	}
	for i := range snapshot {
		if snapshot[i] != after[i] {
			t.Fatalf("base point %d changed", i)
		}
	}
	if &r.State().Working[0] != working {
		t.Error("working buffer was reallocated by resize")
	}
	if got := r.State().Camera.Aspect(); got != 4 {
		t.Errorf("aspect = %v, want 4", got)
	}
	if s := h.LastSurface(); s.Width != 1024 || s.Height != 256 {
		t.Errorf("surface = %dx%d", s.Width, s.Height)
	}
}

func TestResizeToZeroAndBack(t *testing.T) {
	h := &headless.Host{}
	clock := &fakeClock{}
	r := attach(t, h, clock)
	defer r.Detach()

	h.Resize(render.Size{Width: 0, Height: 0, PixelRatio: 1})
	for i := range 3 {
		clock.t = float64(i)
		if err := r.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if d := h.LastSurface().Draws; d != 0 {
		t.Fatalf("drew %d frames into a zero-area viewport", d)
	}

	h.Resize(render.Size{Width: 320, Height: 240, PixelRatio: 1})
	clock.t = 4
	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}
	if d := h.LastSurface().Draws; d != 1 {
		t.Errorf("draws after restore = %d, want 1", d)
	}
	if n := r.State().Cloud.Len(); n != 81 {
		t.Errorf("point count = %d after resize cycle", n)
	}
	if st := r.Scheduler().Stats(); st.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", st.Skipped)
	}
}

func TestRapidResizeDoesNotLeak(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{})
	for i := range 100 {
		h.Resize(render.Size{Width: 10 + i, Height: 10 + i%7, PixelRatio: 2})
	}
	if got := h.Live(); got.Buffers != 1 || got.Textures != 1 || got.Surfaces != 1 {
		t.Errorf("Live = %+v", got)
	}
	r.Detach()
}

func TestPointerIsOffsetFromCenter(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{})
	defer r.Detach()

	h.PointerMove(300, 50)
	if p := r.State().Pointer; p.X != 100 || p.Y != -100 {
		t.Errorf("pointer = %+v, want {100 -100}", p)
	}

	h.PointerMove(0, 0)
	h.PointerMove(200, 350)
	if p := r.State().Pointer; p.X != 0 || p.Y != 200 {
		t.Errorf("pointer = %+v, want last value {0 200}", p)
	}

	r.Frame()
	x, _, _ := r.State().Camera.Rotation()
	want := float32(orb.TiltDamping * 200 * orb.TiltPerPixel)
	if d := x - want; d > 1e-7 || d < -1e-7 {
		t.Errorf("tilt = %v, want %v", x, want)
	}
}

func TestMountUnmountCyclesLeaveNothing(t *testing.T) {
	h := &headless.Host{}
	for i := range 10 {
		r := attach(t, h, &fakeClock{t: float64(i)})
		if err := r.Frame(); err != nil {
			t.Fatal(err)
		}
		if err := r.Detach(); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}
	if !h.Live().Zero() {
		t.Errorf("Live = %+v after 10 cycles", h.Live())
	}
	if got := h.Acquired(); got.Surfaces != 10 || got.Textures != 10 || got.Buffers != 10 || got.Subscriptions != 10 {
		t.Errorf("Acquired = %+v", got)
	}
}

func TestRemountIsFresh(t *testing.T) {
	h := &headless.Host{}
	clock := &fakeClock{}
	a := attach(t, h, clock)
	for i := range 10 {
		clock.t = float64(i) * 3
		a.Frame()
	}
	aCloud := a.State().Cloud
	a.Detach()

	b := attach(t, h, &fakeClock{})
	defer b.Detach()
	if b.State().Cloud == aCloud {
		t.Error("remount reused the previous point cloud")
	}
	if b.State().Colors.Current() != 0 || b.State().Colors.NextChangeTime() != 0 {
		t.Error("remount reused color state")
	}
}

func TestDetachStopsLoopAndIsIdempotent(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{})
	if err := r.Detach(); err != nil {
		t.Fatal(err)
	}
	if err := r.Detach(); err != nil {
		t.Errorf("second Detach = %v", err)
	}
	if err := r.Frame(); !errors.Is(err, render.ErrStopped) {
		t.Errorf("Frame after Detach = %v, want ErrStopped", err)
	}
	// late events from the host are ignored
	h.Resize(render.Size{Width: 10, Height: 10})
	h.PointerMove(1, 1)
	if !h.Live().Zero() {
		t.Errorf("Live = %+v", h.Live())
	}
}

func TestAttachConfigurationError(t *testing.T) {
	h := &headless.Host{}
	cfg := testConfig()
	cfg.Palette = []string{"#ffffff"}
	_, err := render.Attach(h, cfg, render.Size{Width: 10, Height: 10})
	if !errors.Is(err, orb.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	if h.Acquired().Surfaces != 0 {
		t.Error("surface acquired despite invalid configuration")
	}
}

func TestAttachResourceErrors(t *testing.T) {
	boom := errors.New("no webgl")
	tests := []struct {
		name string
		host *headless.Host
	}{
		{"surface", &headless.Host{SurfaceErr: boom}},
		{"texture", &headless.Host{TextureErr: boom}},
		{"buffer", &headless.Host{BufferErr: boom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render.Attach(tt.host, testConfig(), render.Size{Width: 10, Height: 10},
				render.WithLogger(quietLogger()))
			var rerr *render.ResourceError
			if !errors.As(err, &rerr) {
				t.Fatalf("err = %v, want *ResourceError", err)
			}
			if !errors.Is(err, render.ErrResourceUnavailable) || !errors.Is(err, boom) {
				t.Errorf("err = %v does not wrap both causes", err)
			}
			if !tt.host.Live().Zero() {
				t.Errorf("partial mount leaked %+v", tt.host.Live())
			}
		})
	}
}

func TestAttachEmptyContainer(t *testing.T) {
	_, err := render.Attach(&headless.Host{}, testConfig(), render.Size{})
	if !errors.Is(err, render.ErrResourceUnavailable) {
		t.Errorf("err = %v, want ErrResourceUnavailable", err)
	}
}

func TestDrawErrorsAreTolerated(t *testing.T) {
	var logs bytes.Buffer
	h := &headless.Host{DrawErr: func(frame uint64) error {
		if frame%2 == 0 {
			return errors.New("context lost")
		}
		return nil
	}}
	clock := &fakeClock{}
	r, err := render.Attach(h, testConfig(), render.Size{Width: 64, Height: 64, PixelRatio: 1},
		render.WithClock(clock), render.WithLogger(log.New(&logs, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Detach()

	for i := range 10 {
		clock.t = float64(i)
		if err := r.Frame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	st := r.Scheduler().Stats()
	if st.Frames != 10 || st.Draws != 5 || st.DrawErrors != 5 {
		t.Errorf("stats = %+v", st)
	}
	if !strings.Contains(logs.String(), "context lost") {
		t.Errorf("draw error not logged: %q", logs.String())
	}
	if n := strings.Count(logs.String(), "\n"); n != 1 {
		t.Errorf("logged %d lines, want 1 (throttled)", n)
	}
}

func TestRunStopsOnStop(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{})
	defer r.Detach()

	frames := make(chan time.Time, 4)
	frames <- time.Time{}
	frames <- time.Time{}
	r.Scheduler().Stop()
	frames <- time.Time{}

	if err := r.Scheduler().Run(context.Background(), frames); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if st := r.Scheduler().Stats(); st.Frames != 0 {
		t.Errorf("frames after stop = %d", st.Frames)
	}
}

func TestRunHonoursContextAndClosedChannel(t *testing.T) {
	h := &headless.Host{}
	r := attach(t, h, &fakeClock{})
	defer r.Detach()

	frames := make(chan time.Time, 3)
	for range 3 {
		frames <- time.Time{}
	}
	close(frames)
	if err := r.Scheduler().Run(context.Background(), frames); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if st := r.Scheduler().Stats(); st.Frames != 3 {
		t.Errorf("frames = %d, want 3", st.Frames)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Scheduler().Run(ctx, make(chan time.Time)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
