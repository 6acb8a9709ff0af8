package flo2d

import "math"

// FLO-2D result files have no explicit missing-value marker; a value close
// enough to zero means "no data". The band is a format convention, not
// rounding noise: every value inside it collapses to the same output on a
// round trip.
const sentinelEpsilon = 1e-8

// decodeSentinel maps the format-native zero sentinel to NaN. Values
// outside the epsilon band pass through unchanged.
func decodeSentinel(v float64) float64 {
	if math.Abs(v) <= sentinelEpsilon {
		return math.NaN()
	}
	return v
}

// encodeSentinel maps a missing value back to the format-native zero.
func encodeSentinel(v float64) float64 {
	if math.IsNaN(v) {
		return 0.0
	}
	return v
}
