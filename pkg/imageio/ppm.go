// Package imageio writes channel histograms to image files and reads them back.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/willbeason/buddhabrot/pkg/histogram"
)

var ErrFormat = errors.New("invalid image format")

const ppmComment = "# Created by buddhabrot"

// MaxPPMPixels bounds the size a PPM header may declare. Each pixel costs three int64
// counters, so this is about 800MB of histogram.
const MaxPPMPixels = 1 << 25

// ScaledPPMFactor is the fexp rate used by WriteScaledPPM.
const ScaledPPMFactor = 0.05

// WritePPM writes a plain (P3) PPM of raw counts. The maxval is the largest count over all
// channels.
func WritePPM(w io.Writer, imgs histogram.RGB) error {
	return writePPM(w, imgs, imgs.Max(), func(v int64) int64 { return v })
}

// WriteScaledPPM writes a plain PPM with every count compressed by fexp against the largest
// count over all channels.
func WriteScaledPPM(w io.Writer, imgs histogram.RGB) error {
	mx := float64(imgs.Max())
	f := histogram.FExp(ScaledPPMFactor)

	return writePPM(w, imgs, 255, func(v int64) int64 {
		return int64(histogram.ScaleByte(f, float64(v), mx))
	})
}

func writePPM(w io.Writer, imgs histogram.RGB, maxval int64, value func(int64) int64) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%s\n%d %d\n%d\n", ppmComment, imgs.Width(), imgs.Height(), maxval)

	r, g, b := imgs[histogram.Red].Pixels(), imgs[histogram.Green].Pixels(), imgs[histogram.Blue].Pixels()
	for i := range r {
		fmt.Fprintf(bw, "%d %d %d\n", value(r[i]), value(g[i]), value(b[i]))
	}

	return bw.Flush()
}

// ReadPPM reads a plain PPM into three channels. The header maxval is ignored; each channel
// tracks its own maximum.
func ReadPPM(r io.Reader) (histogram.RGB, error) {
	const (
		awaitMagic = iota
		awaitWidth
		awaitHeight
		awaitMaxval
		awaitPixels
	)

	var imgs histogram.RGB
	state := awaitMagic
	width, height := 0, 0
	sample := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		for _, token := range strings.Fields(line) {
			if state == awaitMagic {
				if token != "P3" {
					return imgs, fmt.Errorf("%w: expected P3, got %q", ErrFormat, token)
				}
				state = awaitWidth
				continue
			}

			v, err := strconv.ParseInt(token, 10, 64)
			if err != nil {
				return imgs, fmt.Errorf("%w: %v", ErrFormat, err)
			}

			switch state {
			case awaitWidth:
				width = int(v)
				state = awaitHeight
			case awaitHeight:
				height = int(v)
				if width <= 0 || height <= 0 {
					return imgs, fmt.Errorf("%w: bad size %dx%d", ErrFormat, width, height)
				}
				// Divide rather than multiply so huge sizes cannot overflow.
				if height > MaxPPMPixels/width {
					return imgs, fmt.Errorf("%w: size %dx%d exceeds %d pixels", ErrFormat, width, height, MaxPPMPixels)
				}
				state = awaitMaxval
			case awaitMaxval:
				imgs = histogram.NewRGB(width, height)
				state = awaitPixels
			case awaitPixels:
				pixel := sample / int(histogram.NumChannels)
				if pixel >= width*height {
					return imgs, fmt.Errorf("%w: more than %d pixels", ErrFormat, width*height)
				}
				ch := histogram.Channel(sample % int(histogram.NumChannels))
				imgs[ch].Set(pixel%width, pixel/width, v)
				sample++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return imgs, err
	}

	if state != awaitPixels || sample != width*height*int(histogram.NumChannels) {
		return imgs, fmt.Errorf("%w: truncated image", ErrFormat)
	}

	return imgs, nil
}
