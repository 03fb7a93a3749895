package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/willbeason/buddhabrot/pkg/render"
	"github.com/willbeason/buddhabrot/pkg/trajectory"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
)

func mainCmd() *cobra.Command {
	cfg := render.DefaultConfig()
	cfg.Threads = runtime.NumCPU()

	var out string
	var compress bool

	cmd := &cobra.Command{
		Use:   "trajectory-gen",
		Short: "Sample escaping orbits and write them as JSON lines",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, cfg, out, compress)
		},
	}

	cfg.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout; .zst compresses)")
	cmd.Flags().BoolVar(&compress, "zstd", false, "Compress the output with zstd")

	return cmd
}

func runCmd(cmd *cobra.Command, cfg render.Config, out string, compress bool) (retErr error) {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	render.SetLogger(logger)

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil && retErr == nil {
				retErr = err
			}
		}()
		w = f
		compress = compress || strings.HasSuffix(out, ".zst")
	}

	var sink *trajectory.Writer
	if compress {
		var err error
		sink, err = trajectory.NewCompressedWriter(w)
		if err != nil {
			return err
		}
	} else {
		sink = trajectory.NewWriter(w)
	}

	result, err := render.Render(cmd.Context(), cfg, render.Hooks{OnTrajectory: sink.Write})
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("wrote trajectories",
		"count", result.Received,
		"outcome", result.Outcome,
		"elapsed", result.Elapsed,
	)
	if result.Received < result.Expected {
		fmt.Fprintf(cmd.ErrOrStderr(), "Only %d of %d trajectories found\n", result.Received, result.Expected)
	}

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
