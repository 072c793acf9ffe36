// Package feature provides batch feature scaling, per-post feature assembly,
// and user interest profile construction for the ranking pipeline. All
// scaling is relative to the batch it is given: values are comparable within
// one ranking request, not across requests.
package feature

import (
	"math"
	"time"
)

// DegenerateScaleValue is the value every element maps to when a batch has no
// spread (max == min). The midpoint is used so a constant column neither
// boosts nor buries anything relative to the [0, 1] range.
const DegenerateScaleValue = 0.5

// MinMaxScale maps each value to [0, 1] via (x - min) / (max - min) over the
// batch. A batch where every value is identical maps to
// DegenerateScaleValue, never a division by zero. Empty input returns an
// empty slice.
func MinMaxScale(values []float64) []float64 {
	scaled := make([]float64, len(values))
	if len(values) == 0 {
		return scaled
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		for i := range scaled {
			scaled[i] = DegenerateScaleValue
		}
		return scaled
	}

	spread := max - min
	for i, v := range values {
		scaled[i] = (v - min) / spread
	}

	return scaled
}

// RecencyScale maps post ages to [0, 1] with newer posts near 1. Ages are
// log-transformed (log(1 + seconds)) to compress the long tail of old posts,
// min-max scaled over the batch, then inverted. Negative ages (clock skew)
// are clamped to zero before the transform.
func RecencyScale(ages []time.Duration) []float64 {
	logged := make([]float64, len(ages))
	for i, age := range ages {
		seconds := age.Seconds()
		if seconds < 0 {
			seconds = 0
		}
		logged[i] = math.Log1p(seconds)
	}

	scaled := MinMaxScale(logged)
	for i := range scaled {
		scaled[i] = 1 - scaled[i]
	}

	return scaled
}
