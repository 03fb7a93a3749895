package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/willbeason/buddhabrot/pkg/imageio"
	"os"
)

func mainCmd() *cobra.Command {
	var factor int

	cmd := &cobra.Command{
		Use:   "rescale image.ppm",
		Short: "Write a PNG of a raw-count PPM for each scaling function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd(cmd, args[0], factor)
		},
	}

	cmd.Flags().IntVar(&factor, "downsample", 1, "Shrink each PNG by this factor")

	return cmd
}

func runCmd(cmd *cobra.Command, path string, factor int) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if factor < 1 {
		return fmt.Errorf("downsample must be at least 1, got %d", factor)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	imgs, err := imageio.ReadPPM(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for _, s := range imageio.RescaleFuncs() {
		name := path + s.Name + ".png"

		out, err := os.Create(name)
		if err != nil {
			return err
		}

		err = imageio.EncodePNG(out, imgs, s.Scale, factor)
		if err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", name, err)
		}

		err = out.Close()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}

	return nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
