package render

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/willbeason/buddhabrot/pkg/escape"
	"github.com/willbeason/buddhabrot/pkg/geometry"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
	"github.com/willbeason/buddhabrot/pkg/viewport"
)

// A Sampler draws seeds and simulates their orbits. Each Sampler owns its random source and
// must stay on a single goroutine.
type Sampler struct {
	ID int

	cfg    Config
	view   viewport.Region
	region viewport.Region
	rng    *rand.Rand
	it     escape.Iterator

	// scratch collects waypoints of the orbit in progress; it is copied out only for
	// retained trajectories.
	scratch []trajectory.Waypoint

	Stats SamplerStats
}

func NewSampler(id int, cfg Config, rng *rand.Rand) *Sampler {
	return &Sampler{
		ID:     id,
		cfg:    cfg,
		view:   cfg.View(),
		region: cfg.SampleRegion(),
		rng:    rng,
	}
}

// Draw simulates one random seed. ok is false if the seed was rejected.
func (s *Sampler) Draw() (t trajectory.Trajectory, ok bool) {
	return s.Trace(s.region.Sample(s.rng))
}

// Trace simulates the orbit of c, keeping it only if it escaped after at least
// MinIterations steps.
func (s *Sampler) Trace(c geometry.Complex) (t trajectory.Trajectory, ok bool) {
	s.Stats.Attempts++

	if escape.WillLoopForever(c) {
		s.Stats.Bounded++
		return trajectory.Trajectory{}, false
	}

	s.scratch = s.scratch[:0]
	res := s.it.Orbit(c, s.cfg.MaxIterations, func(_ int, z geometry.Complex) {
		x, y, inside := s.view.Pixel(z, s.cfg.Width, s.cfg.Height)
		if inside {
			s.scratch = append(s.scratch, trajectory.Waypoint{X: x, Y: y, Point: z})
		}
	})

	switch {
	case res.Cycled:
		s.Stats.Cycled++
		return trajectory.Trajectory{}, false
	case !res.Escaped:
		s.Stats.Captive++
		return trajectory.Trajectory{}, false
	case res.Length < s.cfg.MinIterations:
		s.Stats.Short++
		return trajectory.Trajectory{}, false
	}

	s.Stats.Emitted++
	return trajectory.Trajectory{
		Seed:      c,
		Waypoints: slices.Clone(s.scratch),
		Length:    res.Length,
	}, true
}

// Run pushes quota valid trajectories onto out. It returns early, without error, once ctx
// is done; that is how the collector tells samplers to stop.
func (s *Sampler) Run(ctx context.Context, quota int, out chan<- trajectory.Trajectory) error {
	log := Logger().With("sampler", s.ID)
	log.Debug("sampler started", "quota", quota)

	for valid := 0; valid < quota; {
		if ctx.Err() != nil {
			log.Debug("sampler stopped", "emitted", valid)
			return nil
		}

		t, ok := s.Draw()
		if !ok {
			continue
		}

		select {
		case out <- t:
			valid++
		case <-ctx.Done():
			log.Debug("sampler stopped", "emitted", valid)
			return nil
		}
	}

	log.Debug("sampler finished", "attempts", s.Stats.Attempts, "yield", s.Stats.Yield())
	return nil
}
