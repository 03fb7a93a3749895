// Package colorbin assigns trajectories to color channels by their final iteration count.
package colorbin

import "github.com/willbeason/buddhabrot/pkg/histogram"

// HighThreshold is the minimum iteration filter above which short orbits are already rare
// and the channels are split more evenly.
const HighThreshold = 100

const (
	highRedFactor   = 0.40
	highGreenFactor = 0.10

	lowRedFactor   = 0.10
	lowGreenFactor = 0.01
)

// Binner holds the channel thresholds for one iteration range.
type Binner struct {
	RedMin   int
	GreenMin int
	BlueMax  int
}

// New derives thresholds from the iteration range. Thresholds truncate toward zero.
func New(minIterations, maxIterations int) Binner {
	redFactor, greenFactor := lowRedFactor, lowGreenFactor
	if minIterations > HighThreshold {
		redFactor, greenFactor = highRedFactor, highGreenFactor
	}

	span := float64(maxIterations - minIterations)
	greenMin := int(span*greenFactor + float64(minIterations))

	return Binner{
		RedMin:   int(span*redFactor + float64(minIterations)),
		GreenMin: greenMin,
		BlueMax:  greenMin,
	}
}

// Channel picks the channel for a trajectory of the given length. ok is false when the
// length falls between GreenMin and BlueMax, which only happens for hand-built Binners.
//
// A length equal to GreenMin goes to blue.
func (b Binner) Channel(length int) (ch histogram.Channel, ok bool) {
	switch {
	case length > b.RedMin:
		return histogram.Red, true
	case length > b.GreenMin:
		return histogram.Green, true
	case length <= b.BlueMax:
		return histogram.Blue, true
	}
	return 0, false
}
