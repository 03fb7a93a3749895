package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/willbeason/buddhabrot/pkg/geometry"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
	"github.com/willbeason/buddhabrot/pkg/viewport"
)

var ErrInvalidConfig = errors.New("invalid render config")

const (
	baseTimeout          = 250 * time.Millisecond
	timeoutPerMinIterate = 100 * time.Millisecond

	queuePerThread = 64
)

// Config holds the parameters of one run. It is copied into every sampler and never
// modified after the run starts.
type Config struct {
	Threads       int
	MaxIterations int
	MinIterations int

	Width, Height int

	// SampleScale grows the seed rectangle beyond the visible view so seeds outside it can
	// still contribute visible waypoints.
	SampleScale float64

	CenterX, CenterY float64
	Zoom             float64

	// Trajectories is the number of valid trajectories to collect.
	Trajectories int

	// QueueSize is the capacity of the sampler queue. Zero means Threads*64.
	QueueSize int
	// Timeout bounds a single wait for the next trajectory. Zero derives it from
	// MinIterations, see ReceiveTimeout.
	Timeout time.Duration
	// Seed seeds the samplers. Zero picks one from the clock. Each sampler derives its own
	// stream from Seed and its index.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Threads:       3,
		MaxIterations: 1024,
		MinIterations: 0,
		Width:         1024,
		Height:        1024,
		SampleScale:   1.5,
		CenterX:       -0.74,
		CenterY:       0.0,
		Zoom:          1.0,
		Trajectories:  1000,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Threads <= 0:
		return fmt.Errorf("%w: threads must be positive, got %d", ErrInvalidConfig, c.Threads)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Trajectories <= 0:
		return fmt.Errorf("%w: trajectory count must be positive, got %d", ErrInvalidConfig, c.Trajectories)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.MinIterations < 0:
		return fmt.Errorf("%w: min iterations must not be negative, got %d", ErrInvalidConfig, c.MinIterations)
	case c.MinIterations > c.MaxIterations:
		return fmt.Errorf("%w: min iterations %d exceed max iterations %d", ErrInvalidConfig, c.MinIterations, c.MaxIterations)
	case !(c.SampleScale > 0):
		return fmt.Errorf("%w: sample scale must be positive, got %f", ErrInvalidConfig, c.SampleScale)
	case c.QueueSize < 0:
		return fmt.Errorf("%w: queue size must not be negative, got %d", ErrInvalidConfig, c.QueueSize)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must not be negative, got %v", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// View is the visible region of the complex plane.
func (c Config) View() viewport.Region {
	return viewport.Centered(geometry.New(c.CenterX, c.CenterY), c.Zoom)
}

// SampleRegion is the region seeds are drawn from.
func (c Config) SampleRegion() viewport.Region {
	return c.View().Scale(c.SampleScale)
}

// PerWorker is each sampler's quota of valid trajectories.
func (c Config) PerWorker() int {
	return max(1, c.Trajectories/c.Threads)
}

// Expected is how many trajectories the collector waits for.
func (c Config) Expected() int {
	return min(c.Trajectories, c.PerWorker()*c.Threads)
}

// ReceiveTimeout is 250ms plus 100ms per required iteration unless Timeout is set: a higher
// minimum makes valid samples rarer and slower to find.
func (c Config) ReceiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return baseTimeout + time.Duration(c.MinIterations)*timeoutPerMinIterate
}

func (c Config) queueSize() int {
	if c.QueueSize > 0 {
		return c.QueueSize
	}
	return c.Threads * queuePerThread
}

func (c Config) seed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Hooks observe a run from the collector goroutine.
type Hooks struct {
	// Progress is called roughly every percent of the expected count and once at the end.
	Progress func(received, expected int)
	// OnTrajectory is called for every collected trajectory before it is accumulated. An
	// error aborts the run.
	OnTrajectory func(trajectory.Trajectory) error
}
