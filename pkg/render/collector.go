package render

import (
	"context"
	"fmt"
	"time"

	"github.com/willbeason/buddhabrot/pkg/colorbin"
	"github.com/willbeason/buddhabrot/pkg/histogram"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
)

// Outcome is why collection stopped.
type Outcome int

const (
	// Complete means the expected number of trajectories arrived.
	Complete Outcome = iota
	// Drained means every producer finished before the expected count was reached.
	Drained
	// TimedOut means a single wait for the next trajectory exceeded the receive timeout.
	TimedOut
	// Interrupted means the caller's context was cancelled.
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Complete:
		return "complete"
	case Drained:
		return "drained"
	case TimedOut:
		return "timed out"
	case Interrupted:
		return "interrupted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// A Collector accumulates trajectories into channel histograms. It is owned by a single
// goroutine.
type Collector struct {
	Binner colorbin.Binner
	// Gray sends every waypoint to all three channels instead of binning by length.
	Gray bool

	Images    histogram.RGB
	Frequency histogram.IterationFrequency

	Received  int
	Waypoints int64
	// Unbinned counts trajectories whose length matched no channel.
	Unbinned int
}

func NewCollector(width, height int, binner colorbin.Binner) *Collector {
	return &Collector{
		Binner:    binner,
		Images:    histogram.NewRGB(width, height),
		Frequency: histogram.IterationFrequency{},
	}
}

// Add accumulates one trajectory.
func (c *Collector) Add(t trajectory.Trajectory) {
	c.Received++
	c.Frequency.Add(t.Length)

	if c.Gray {
		for _, p := range t.Waypoints {
			for _, img := range c.Images {
				img.Incr(p.X, p.Y)
			}
		}
		c.Waypoints += int64(len(t.Waypoints))
		return
	}

	ch, ok := c.Binner.Channel(t.Length)
	if !ok {
		c.Unbinned++
		return
	}

	img := c.Images[ch]
	for _, p := range t.Waypoints {
		img.Incr(p.X, p.Y)
	}
	c.Waypoints += int64(len(t.Waypoints))
}

// Collect drains queue until expected trajectories have arrived, queue is closed, a single
// wait exceeds timeout, or ctx is done. Only a failing OnTrajectory hook is an error.
func (c *Collector) Collect(ctx context.Context, queue <-chan trajectory.Trajectory, expected int, timeout time.Duration, hooks Hooks) (Outcome, error) {
	step := max(expected/100, 1)
	defer func() {
		if hooks.Progress != nil {
			hooks.Progress(c.Received, expected)
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for received := 0; received < expected; received++ {
		timer.Reset(timeout)

		var t trajectory.Trajectory
		var ok bool
		select {
		case t, ok = <-queue:
			if !ok {
				if ctx.Err() != nil {
					return Interrupted, nil
				}
				return Drained, nil
			}
		case <-timer.C:
			Logger().Info("timed out waiting for trajectories", "timeout", timeout, "received", received, "expected", expected)
			return TimedOut, nil
		case <-ctx.Done():
			return Interrupted, nil
		}

		if hooks.OnTrajectory != nil {
			if err := hooks.OnTrajectory(t); err != nil {
				return Complete, fmt.Errorf("trajectory sink: %w", err)
			}
		}

		c.Add(t)

		if hooks.Progress != nil && c.Received%step == 0 {
			hooks.Progress(c.Received, expected)
		}
	}

	return Complete, nil
}
