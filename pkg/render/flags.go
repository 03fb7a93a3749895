package render

import "github.com/spf13/pflag"

// RegisterFlags binds the run parameters to fs, using the current values of c as defaults.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.Threads, "threads", "t", c.Threads, "Number of sampler goroutines")
	fs.IntVar(&c.MaxIterations, "max-iters", c.MaxIterations, "Maximum number of allowed iterations")
	fs.IntVar(&c.MinIterations, "min-iters", c.MinIterations, "Minimum required number of iterations")
	fs.IntVar(&c.Width, "width", c.Width, "Width in pixels of the output image")
	fs.IntVar(&c.Height, "height", c.Height, "Height in pixels of the output image")
	fs.Float64Var(&c.SampleScale, "sample-scale", c.SampleScale, "Factor by which the seed rectangle exceeds the view")
	fs.Float64Var(&c.CenterX, "center-x", c.CenterX, "Real part of the view center")
	fs.Float64Var(&c.CenterY, "center-y", c.CenterY, "Imaginary part of the view center")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "Zoom level; each level halves the view")
	fs.IntVar(&c.Trajectories, "trajectory-count", c.Trajectories, "Absolute number of trajectories to find")
	fs.IntVar(&c.QueueSize, "queue-size", c.QueueSize, "Capacity of the trajectory queue (0 = 64 per thread)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Longest wait for a single trajectory (0 = 250ms + 100ms per min-iter)")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Random seed (0 = from the clock)")
}
