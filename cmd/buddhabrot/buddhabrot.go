package main

import (
	"context"
	"fmt"
	"github.com/google/gops/agent"
	"github.com/spf13/cobra"
	"github.com/willbeason/buddhabrot/pkg/histogram"
	"github.com/willbeason/buddhabrot/pkg/imageio"
	"github.com/willbeason/buddhabrot/pkg/render"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type options struct {
	cfg render.Config

	out         string
	jsonFile    string
	iterLog     string
	png         bool
	ppm         bool
	scaledPPM   bool
	supersample int
	gops        bool
	verbose     bool
}

func mainCmd() *cobra.Command {
	opts := &options{cfg: render.DefaultConfig()}
	opts.cfg.Threads = runtime.NumCPU()

	cmd := &cobra.Command{
		Use:   "buddhabrot",
		Short: "Render a Buddhabrot density image",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, opts)
		},
	}

	opts.cfg.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.out, "out", "out", "Directory for output images")
	cmd.Flags().StringVar(&opts.jsonFile, "json", "", "Write every trajectory as a JSON line to this file (.zst compresses)")
	cmd.Flags().StringVar(&opts.iterLog, "itercounts", "itercounts.txt", "File name, under --out, for the iteration frequency log")
	cmd.Flags().BoolVar(&opts.png, "png", true, "Write an exponentially scaled PNG")
	cmd.Flags().BoolVar(&opts.ppm, "ppm", true, "Write a PPM of raw counts")
	cmd.Flags().BoolVar(&opts.scaledPPM, "scaled-ppm", false, "Write an exponentially scaled PPM")
	cmd.Flags().IntVar(&opts.supersample, "supersample", 1, "Render N times larger and downsample the PNG")
	cmd.Flags().BoolVar(&opts.gops, "gops", false, "Start a gops diagnostics agent")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log sampler activity")

	return cmd
}

func runCmd(cmd *cobra.Command, opts *options) (retErr error) {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)

	if opts.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("starting gops agent: %w", err)
		}
		defer agent.Close()
	}

	if opts.supersample < 1 {
		return fmt.Errorf("supersample must be at least 1, got %d", opts.supersample)
	}
	cfg := opts.cfg
	cfg.Width *= opts.supersample
	cfg.Height *= opts.supersample

	err := os.MkdirAll(opts.out, os.ModePerm)
	if err != nil {
		return err
	}

	hooks := render.Hooks{Progress: printProgress(cmd.ErrOrStderr())}

	if opts.jsonFile != "" {
		sink, closeSink, err := openSink(opts.jsonFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeSink(); err != nil && retErr == nil {
				retErr = err
			}
		}()

		hooks.OnTrajectory = sink.Write
		fmt.Fprintf(cmd.ErrOrStderr(), "Write to json file: %s\n", opts.jsonFile)
	}

	result, err := render.Render(cmd.Context(), cfg, hooks)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	switch {
	case result.TimedOut():
		fmt.Fprintf(cmd.ErrOrStderr(), "Timed out after %d of %d trajectories\n", result.Received, result.Expected)
	case result.Interrupted():
		fmt.Fprintf(cmd.ErrOrStderr(), "Interrupted after %d of %d trajectories\n", result.Received, result.Expected)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Collected %d trajectories (%d waypoints) from %d seeds in %v\n",
		result.Received, result.Waypoints, result.Stats.Attempts, result.Elapsed.Round(time.Millisecond))

	return writeOutputs(opts, result)
}

// openSink creates path and returns a trajectory writer on it. Paths ending in .zst are
// zstd compressed. The returned func flushes the writer and closes the file.
func openSink(path string) (*trajectory.Writer, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	var sink *trajectory.Writer
	if strings.HasSuffix(path, ".zst") {
		sink, err = trajectory.NewCompressedWriter(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
	} else {
		sink = trajectory.NewWriter(f)
	}

	return sink, func() error {
		err := sink.Close()
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

func printProgress(w io.Writer) func(received, expected int) {
	last := -1
	return func(received, expected int) {
		pct := received * 100 / max(expected, 1)
		if pct != last {
			fmt.Fprintf(w, "%d%%\r", pct)
			last = pct
		}
	}
}

func writeOutputs(opts *options, result *render.Result) error {
	base := filepath.Join(opts.out, time.Now().Format("20060102150405"))

	err := writeFile(filepath.Join(opts.out, opts.iterLog), func(w io.Writer) error {
		_, err := result.Frequency.WriteTo(w)
		return err
	})
	if err != nil {
		return err
	}

	if opts.ppm {
		err = writeFile(base+".ppm", func(w io.Writer) error {
			return imageio.WritePPM(w, result.Images)
		})
		if err != nil {
			return err
		}
	}

	if opts.scaledPPM {
		err = writeFile(base+"_scaled.ppm", func(w io.Writer) error {
			return imageio.WriteScaledPPM(w, result.Images)
		})
		if err != nil {
			return err
		}
	}

	if opts.png {
		err = writeFile(base+".png", func(w io.Writer) error {
			return imageio.EncodePNG(w, result.Images, histogram.FExp(histogram.DefaultFExpFactor), opts.supersample)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = write(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	err = f.Close()
	if err != nil {
		return err
	}

	slog.Info("wrote output", "path", path)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := mainCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
