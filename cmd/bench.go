package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/olivierh59500/cosmic-orb-go/internal/headless"
	"github.com/olivierh59500/cosmic-orb-go/internal/render"
	"github.com/spf13/cobra"
)

var (
	benchFrames int
	benchFPS    int
	benchCycles int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the frame loop without a display and report timings",
	RunE:  Bench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "frames per mount")
	benchCmd.Flags().IntVar(&benchFPS, "fps", 0, "pace frames at this rate, 0 runs unpaced")
	benchCmd.Flags().IntVar(&benchCycles, "cycles", 1, "mount/unmount cycles")
}

func Bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	h := &headless.Host{}
	out := cmd.OutOrStdout()
	for cycle := 0; cycle < benchCycles; cycle++ {
		r, err := render.Attach(h, cfg, render.Size{Width: 800, Height: 600, PixelRatio: 1},
			render.WithLogger(log.New(io.Discard, "", 0)))
		if err != nil {
			return err
		}

		start := time.Now()
		runErr := runFrames(ctx, r.Scheduler(), benchFrames, benchFPS)
		elapsed := time.Since(start)
		st := r.Scheduler().Stats()

		if err := r.Detach(); err != nil {
			return err
		}
		if runErr != nil {
			return runErr
		}

		perFrame := time.Duration(0)
		if st.Frames > 0 {
			perFrame = elapsed / time.Duration(st.Frames)
		}
		fmt.Fprintf(out, "cycle %d: %d points, %d frames, %d draws, %v/frame\n",
			cycle, cfg.PointCount(), st.Frames, st.Draws, perFrame)
	}

	if live := h.Live(); !live.Zero() {
		return fmt.Errorf("leaked resources: %+v", live)
	}
	return nil
}

// runFrames feeds the scheduler n frame signals, from a ticker when fps > 0.
func runFrames(ctx context.Context, s *render.Scheduler, n, fps int) error {
	frames := make(chan time.Time)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(frames)
		var tick <-chan time.Time
		if fps > 0 {
			t := time.NewTicker(time.Second / time.Duration(fps))
			defer t.Stop()
			tick = t.C
		}
		for i := 0; i < n; i++ {
			now := time.Now()
			if tick != nil {
				select {
				case now = <-tick:
				case <-done:
					return
				}
			}
			select {
			case frames <- now:
			case <-done:
				return
			}
		}
	}()

	return s.Run(ctx, frames)
}
