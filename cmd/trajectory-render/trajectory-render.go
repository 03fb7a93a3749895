package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/willbeason/buddhabrot/pkg/histogram"
	"github.com/willbeason/buddhabrot/pkg/imageio"
	"github.com/willbeason/buddhabrot/pkg/render"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
)

type options struct {
	cfg     render.ReplayConfig
	out     string
	png     string
	verbose bool
}

func mainCmd() *cobra.Command {
	opts := &options{
		cfg: render.ReplayConfig{
			Threads: runtime.NumCPU(),
			Width:   1024,
			Height:  1024,
			View:    render.DefaultReplayView,
		},
	}

	cmd := &cobra.Command{
		Use:   "trajectory-render [file]",
		Short: "Re-render recorded trajectories into a grayscale image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.cfg.Threads, "threads", "t", opts.cfg.Threads, "Number of replay goroutines")
	cmd.Flags().IntVar(&opts.cfg.Width, "width", opts.cfg.Width, "Width in pixels of the output image")
	cmd.Flags().IntVar(&opts.cfg.Height, "height", opts.cfg.Height, "Height in pixels of the output image")
	cmd.Flags().DurationVar(&opts.cfg.Timeout, "timeout", opts.cfg.Timeout, "Longest wait for a single replayed trajectory (0 = 950ms)")
	cmd.Flags().StringVar(&opts.out, "out", "image.ppm", "Output PPM file")
	cmd.Flags().StringVar(&opts.png, "png", "", "Also write an exponentially scaled PNG to this file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log replay activity")

	return cmd
}

func runCmd(cmd *cobra.Command, args []string, opts *options) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if opts.verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	src, err := trajectory.NewReader(in)
	if err != nil {
		return err
	}
	defer src.Close()

	result, err := render.Replay(cmd.Context(), opts.cfg, src)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Replayed %d of %d trajectories (%s)\n", result.Replayed, result.Read, result.Outcome)

	err = writeFile(opts.out, func(w io.Writer) error {
		return imageio.WritePPM(w, result.Images)
	})
	if err != nil {
		return err
	}

	if opts.png != "" {
		return writeFile(opts.png, func(w io.Writer) error {
			return imageio.EncodePNG(w, result.Images, histogram.FExp(histogram.DefaultFExpFactor), 1)
		})
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

	return f.Close()
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
