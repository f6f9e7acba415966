package render

import (
	"context"
	"errors"
	"log"
	"time"
)

// drawErrorLogEvery throttles logging of repeated draw failures.
const drawErrorLogEvery = 60

// Stats counts what the loop has done since it started.
type Stats struct {
	Frames     uint64
	Draws      uint64
	Skipped    uint64 // frames with a zero-area viewport
	DrawErrors uint64
}

// Scheduler runs one step of the orb per displayed frame until stopped.
// It is cooperative and single-threaded: Tick, Stop and the renderer's event
// handlers must all be called from the host's frame thread.
type Scheduler struct {
	state   *RendererState
	surface Surface
	texture Texture
	buffer  PointBuffer
	clock   Clock
	logger  *log.Logger
	stopped bool
	stats   Stats
}

// Tick runs one frame: color, deformation, camera, then a single draw.
// A failed draw is logged and dropped; the next tick tries again.
func (s *Scheduler) Tick() error {
	if s.stopped {
		return ErrStopped
	}

	s.stats.Frames++
	s.state.Step(s.clock.Elapsed())

	if s.state.BufferWidth <= 0 || s.state.BufferHeight <= 0 {
		s.stats.Skipped++
		return nil
	}

	err := s.surface.Draw(DrawCall{
		Buffer:     s.buffer,
		Texture:    s.texture,
		Sprites:    s.state.Sprites,
		Brightness: s.state.Brightness,
		Color:      s.state.Colors.Display(),
		Opacity:    s.state.Opacity,
	})
	if err != nil {
		s.stats.DrawErrors++
		if s.stats.DrawErrors%drawErrorLogEvery == 1 {
			s.logger.Printf("%v (%d draw errors so far)", &DrawError{Frame: s.stats.Frames, Err: err}, s.stats.DrawErrors)
		}
		return nil
	}
	s.stats.Draws++
	return nil
}

// Run ticks once per value received on frames until the scheduler is
// stopped, frames is closed or ctx is done.
func (s *Scheduler) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if err := s.Tick(); err != nil {
				if errors.Is(err, ErrStopped) {
					return nil
				}
				return err
			}
		}
	}
}

// Stop makes every later Tick a no-op. A frame already in progress
// completes.
func (s *Scheduler) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

// Stats returns the loop counters.
func (s *Scheduler) Stats() Stats {
	return s.stats
}
