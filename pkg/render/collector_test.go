package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/willbeason/buddhabrot/pkg/colorbin"
	"github.com/willbeason/buddhabrot/pkg/geometry"
	"github.com/willbeason/buddhabrot/pkg/histogram"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
)

func fakeTrajectory(length int, points ...[2]int) trajectory.Trajectory {
	t := trajectory.Trajectory{Seed: geometry.New(1, 1), Length: length}
	for _, p := range points {
		t.Waypoints = append(t.Waypoints, trajectory.Waypoint{X: p[0], Y: p[1]})
	}
	return t
}

func TestCollector_AddBinsByLength(t *testing.T) {
	// red_min=10, green_min=blue_max=1
	c := NewCollector(4, 4, colorbin.New(0, 100))

	c.Add(fakeTrajectory(50, [2]int{0, 0}, [2]int{0, 0}))
	c.Add(fakeTrajectory(5, [2]int{1, 1}))
	c.Add(fakeTrajectory(1, [2]int{2, 2}, [2]int{3, 3}))

	tests := []struct {
		ch       histogram.Channel
		x, y     int
		expected int64
	}{
		{histogram.Red, 0, 0, 2},
		{histogram.Green, 0, 0, 0},
		{histogram.Green, 1, 1, 1},
		{histogram.Blue, 2, 2, 1},
		{histogram.Blue, 3, 3, 1},
		{histogram.Red, 3, 3, 0},
	}
	for _, tt := range tests {
		if got := c.Images[tt.ch].At(tt.x, tt.y); got != tt.expected {
			t.Errorf("Expected %v (%d,%d) = %d, got %d", tt.ch, tt.x, tt.y, tt.expected, got)
		}
	}

	if c.Received != 3 || c.Waypoints != 5 {
		t.Errorf("Expected 3 received and 5 waypoints, got %d and %d", c.Received, c.Waypoints)
	}
	if c.Frequency[50] != 1 || c.Frequency[5] != 1 || c.Frequency[1] != 1 {
		t.Errorf("Unexpected frequencies %v", c.Frequency)
	}
}

func TestCollector_Gray(t *testing.T) {
	c := NewCollector(2, 2, colorbin.Binner{})
	c.Gray = true

	c.Add(fakeTrajectory(7, [2]int{1, 0}))

	for ch := histogram.Red; ch < histogram.NumChannels; ch++ {
		if got := c.Images[ch].At(1, 0); got != 1 {
			t.Errorf("Expected %v (1,0) = 1, got %d", ch, got)
		}
	}
}

func TestCollector_TimeoutKeepsPartialResult(t *testing.T) {
	c := NewCollector(10, 10, colorbin.New(0, 100))
	queue := make(chan trajectory.Trajectory, 100)

	// Only 40 of the expected 100 ever arrive, and the queue is never closed.
	for i := 0; i < 40; i++ {
		queue <- fakeTrajectory(50, [2]int{i % 10, i / 10})
	}

	var lastReceived, lastExpected int
	hooks := Hooks{Progress: func(received, expected int) {
		lastReceived, lastExpected = received, expected
	}}

	start := time.Now()
	outcome, err := c.Collect(context.Background(), queue, 100, 50*time.Millisecond, hooks)
	if err != nil {
		t.Fatalf("Expected no error on timeout, got %v", err)
	}
	if outcome != TimedOut {
		t.Errorf("Expected %v, got %v", TimedOut, outcome)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Collect took %v to time out", elapsed)
	}

	if c.Received != 40 {
		t.Errorf("Expected 40 received, got %d", c.Received)
	}
	var total int64
	for _, v := range c.Images[histogram.Red].Pixels() {
		total += v
	}
	if total != 40 {
		t.Errorf("Expected 40 red visits, got %d", total)
	}
	if lastReceived != 40 || lastExpected != 100 {
		t.Errorf("Expected final progress 40/100, got %d/%d", lastReceived, lastExpected)
	}
}

func TestCollector_Outcomes(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		c := NewCollector(2, 2, colorbin.New(0, 100))
		queue := make(chan trajectory.Trajectory, 5)
		for i := 0; i < 5; i++ {
			queue <- fakeTrajectory(3)
		}

		outcome, err := c.Collect(context.Background(), queue, 3, time.Second, Hooks{})
		if err != nil || outcome != Complete {
			t.Errorf("Expected complete, got %v %v", outcome, err)
		}
		if c.Received != 3 {
			t.Errorf("Expected to stop at 3, got %d", c.Received)
		}
	})

	t.Run("drained", func(t *testing.T) {
		c := NewCollector(2, 2, colorbin.New(0, 100))
		queue := make(chan trajectory.Trajectory, 5)
		queue <- fakeTrajectory(3)
		close(queue)

		outcome, err := c.Collect(context.Background(), queue, 10, time.Minute, Hooks{})
		if err != nil || outcome != Drained {
			t.Errorf("Expected drained, got %v %v", outcome, err)
		}
	})

	t.Run("interrupted", func(t *testing.T) {
		c := NewCollector(2, 2, colorbin.New(0, 100))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		outcome, err := c.Collect(ctx, make(chan trajectory.Trajectory), 10, time.Minute, Hooks{})
		if err != nil || outcome != Interrupted {
			t.Errorf("Expected interrupted, got %v %v", outcome, err)
		}
	})

	t.Run("sink failure", func(t *testing.T) {
		c := NewCollector(2, 2, colorbin.New(0, 100))
		queue := make(chan trajectory.Trajectory, 1)
		queue <- fakeTrajectory(3)

		errDisk := errors.New("disk full")
		_, err := c.Collect(context.Background(), queue, 10, time.Minute, Hooks{
			OnTrajectory: func(trajectory.Trajectory) error { return errDisk },
		})
		if !errors.Is(err, errDisk) {
			t.Errorf("Expected sink error, got %v", err)
		}
		if c.Received != 0 {
			t.Errorf("Expected failed trajectory not to be accumulated, got %d", c.Received)
		}
	})
}
