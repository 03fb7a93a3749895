package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/willbeason/buddhabrot/pkg/colorbin"
	"github.com/willbeason/buddhabrot/pkg/escape"
	"github.com/willbeason/buddhabrot/pkg/geometry"
	"github.com/willbeason/buddhabrot/pkg/histogram"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
	"github.com/willbeason/buddhabrot/pkg/viewport"
)

// DefaultReplayView frames the whole set with room for the orbits around it.
var DefaultReplayView = viewport.Region{StartX: -2.5, StopX: 1.0, StartY: -1.75, StopY: 1.75}

const defaultReplayTimeout = 950 * time.Millisecond

// ReplayConfig configures re-rendering of recorded trajectories.
type ReplayConfig struct {
	Threads       int
	Width, Height int
	View          viewport.Region
	// Timeout bounds a single wait for the next replayed orbit. Zero means 950ms.
	Timeout time.Duration
}

func (c ReplayConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case !(c.View.Width() > 0) || !(c.View.Height() > 0):
		return fmt.Errorf("%w: empty view %+v", ErrInvalidConfig, c.View)
	case c.Threads < 0:
		return fmt.Errorf("%w: threads must not be negative, got %d", ErrInvalidConfig, c.Threads)
	}
	return nil
}

// A Source yields recorded trajectories until io.EOF. *trajectory.Reader is a Source.
type Source interface {
	Read() (trajectory.Trajectory, error)
}

// ReplayResult is a grayscale render of replayed trajectories: all three channels hold the
// same counts.
type ReplayResult struct {
	Images    histogram.RGB
	Read      int
	Replayed  int
	Waypoints int64
	Outcome   Outcome
}

// Replay reads src to the end, then re-simulates every trajectory for its recorded length,
// recording every iterate inside cfg.View. Seeds in the cardioid or bulb and orbits that do not
// escape are skipped.
//
// A malformed record aborts the replay with an error.
func Replay(ctx context.Context, cfg ReplayConfig, src Source) (*ReplayResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	threads := cfg.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultReplayTimeout
	}

	// The receive timeout guards replay work only, so input is drained before any worker
	// starts and a slow producer upstream cannot end collection early.
	pending, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return &ReplayResult{
			Images:  histogram.NewRGB(cfg.Width, cfg.Height),
			Read:    len(pending),
			Outcome: Interrupted,
		}, nil
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(workCtx)
	in := make(chan trajectory.Trajectory, threads*queuePerThread)
	out := make(chan trajectory.Trajectory, threads*queuePerThread)

	g.Go(func() error {
		defer close(in)
		for _, t := range pending {
			select {
			case in <- t:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for i := 0; i < threads; i++ {
		g.Go(func() error {
			return replayWorker(gctx, cfg, in, out)
		})
	}

	done := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(out)
		done <- err
	}()

	collector := NewCollector(cfg.Width, cfg.Height, colorbin.Binner{})
	collector.Gray = true

	// Without hooks Collect cannot fail.
	outcome, _ := collector.Collect(ctx, out, math.MaxInt, timeout, Hooks{})

	cancel()
	if err := <-done; err != nil {
		return nil, err
	}

	Logger().Info("replay finished", "outcome", outcome, "read", len(pending), "replayed", collector.Received)

	return &ReplayResult{
		Images:    collector.Images,
		Read:      len(pending),
		Replayed:  collector.Received,
		Waypoints: collector.Waypoints,
		Outcome:   outcome,
	}, nil
}

// readSource reads src to io.EOF. It stops early, without error, once ctx is done.
func readSource(ctx context.Context, src Source) ([]trajectory.Trajectory, error) {
	var pending []trajectory.Trajectory
	for ctx.Err() == nil {
		t, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		pending = append(pending, t)
	}
	return pending, nil
}

func replayWorker(ctx context.Context, cfg ReplayConfig, in <-chan trajectory.Trajectory, out chan<- trajectory.Trajectory) error {
	var it escape.Iterator

	for {
		var old trajectory.Trajectory
		var ok bool
		select {
		case old, ok = <-in:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return nil
		}

		if escape.WillLoopForever(old.Seed) {
			continue
		}

		t := trajectory.Trajectory{Seed: old.Seed}
		res := it.Orbit(old.Seed, old.Length, func(_ int, z geometry.Complex) {
			x, y, inside := cfg.View.Pixel(z, cfg.Width, cfg.Height)
			if inside {
				t.Waypoints = append(t.Waypoints, trajectory.Waypoint{X: x, Y: y, Point: z})
			}
		})
		if !res.Escaped {
			continue
		}
		t.Length = res.Length

		select {
		case out <- t:
		case <-ctx.Done():
			return nil
		}
	}
}
