// Package render estimates Buddhabrot densities: samplers simulate random seeds in
// parallel and a single collector bins the escaping orbits into channel histograms.
package render

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/willbeason/buddhabrot/pkg/colorbin"
	"github.com/willbeason/buddhabrot/pkg/histogram"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
)

// Result is what a run accumulated.
type Result struct {
	Images    histogram.RGB
	Frequency histogram.IterationFrequency

	Expected  int
	Received  int
	Waypoints int64
	Unbinned  int

	Outcome Outcome
	Stats   SamplerStats
	Elapsed time.Duration
}

func (r *Result) TimedOut() bool {
	return r.Outcome == TimedOut
}

func (r *Result) Interrupted() bool {
	return r.Outcome == Interrupted
}

// Render runs cfg.Threads samplers and collects their trajectories on the calling
// goroutine.
//
// Collection ends when the expected count arrives, every sampler has finished, or no
// trajectory arrives within the receive timeout. None of these is an error: the result
// holds whatever was accumulated. Cancelling ctx ends collection the same way. Samplers are
// stopped and waited for before Render returns.
func Render(ctx context.Context, cfg Config, hooks Hooks) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := Logger()

	perWorker := cfg.PerWorker()
	expected := cfg.Expected()
	log.Info("spawning samplers",
		"threads", cfg.Threads,
		"per_sampler", perWorker,
		"expected", expected,
		"timeout", cfg.ReceiveTimeout())

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan trajectory.Trajectory, cfg.queueSize())
	g, gctx := errgroup.WithContext(workCtx)

	seed := cfg.seed()
	samplers := make([]*Sampler, cfg.Threads)
	for i := range samplers {
		s := NewSampler(i, cfg, rand.New(rand.NewPCG(seed, uint64(i))))
		samplers[i] = s

		g.Go(func() error {
			return s.Run(gctx, perWorker, queue)
		})
	}

	// Closing the queue once every sampler returns lets the collector finish without
	// waiting out the timeout.
	done := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(queue)
		done <- err
	}()

	collector := NewCollector(cfg.Width, cfg.Height, colorbin.New(cfg.MinIterations, cfg.MaxIterations))
	outcome, collectErr := collector.Collect(ctx, queue, expected, cfg.ReceiveTimeout(), hooks)

	// Anything still in flight is dropped.
	cancel()
	workErr := <-done

	if collectErr != nil {
		return nil, collectErr
	}
	if workErr != nil {
		return nil, workErr
	}

	result := &Result{
		Images:    collector.Images,
		Frequency: collector.Frequency,
		Expected:  expected,
		Received:  collector.Received,
		Waypoints: collector.Waypoints,
		Unbinned:  collector.Unbinned,
		Outcome:   outcome,
		Elapsed:   time.Since(start),
	}
	for _, s := range samplers {
		result.Stats.Add(s.Stats)
	}

	log.Info("render finished",
		"outcome", outcome,
		"received", result.Received,
		"expected", expected,
		"attempts", result.Stats.Attempts,
		"yield", result.Stats.Yield(),
		"elapsed", result.Elapsed)

	return result, nil
}
