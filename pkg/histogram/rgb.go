package histogram

import (
	"fmt"
	"io"
	"slices"
)

// Channel selects one color plane of an RGB.
type Channel int

const (
	Red Channel = iota
	Green
	Blue

	NumChannels
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// RGB is the ordered (red, green, blue) triple of channel histograms handed to writers.
type RGB [NumChannels]*Image

func NewRGB(width, height int) RGB {
	return RGB{
		NewImage(width, height),
		NewImage(width, height),
		NewImage(width, height),
	}
}

func (rgb RGB) Width() int {
	return rgb[Red].Width
}

func (rgb RGB) Height() int {
	return rgb[Red].Height
}

// Max is the largest count over all channels.
func (rgb RGB) Max() int64 {
	return max(rgb[Red].Max(), rgb[Green].Max(), rgb[Blue].Max())
}

// IterationFrequency counts trajectories by their final iteration count.
type IterationFrequency map[int]int

func (f IterationFrequency) Add(length int) {
	f[length]++
}

// WriteTo writes "length count" lines in increasing length order.
func (f IterationFrequency) WriteTo(w io.Writer) (int64, error) {
	keys := make([]int, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var total int64
	for _, k := range keys {
		n, err := fmt.Fprintf(w, "%d %d\n", k, f[k])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
