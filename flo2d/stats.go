package flo2d

import "math"

// computeStatistics scans a value buffer for its minimum and maximum,
// skipping missing values. Vector buffers are interleaved x/y pairs and
// are reduced over their magnitudes. A buffer with no data at all yields
// NaN bounds.
func computeStatistics(values []float64, vector bool) Statistics {
	st := Statistics{Min: math.NaN(), Max: math.NaN()}

	update := func(v float64) {
		if math.IsNaN(v) {
			return
		}
		if math.IsNaN(st.Min) || v < st.Min {
			st.Min = v
		}
		if math.IsNaN(st.Max) || v > st.Max {
			st.Max = v
		}
	}

	if vector {
		for i := 0; i+1 < len(values); i += 2 {
			x, y := values[i], values[i+1]
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			update(math.Sqrt(x*x + y*y))
		}
	} else {
		for _, v := range values {
			update(v)
		}
	}
	return st
}

// mergeStatistics folds a dataset's statistics into a running group
// aggregate. first marks the group's initial dataset.
func mergeStatistics(agg, st Statistics, first bool) Statistics {
	if first {
		return st
	}
	if math.IsNaN(agg.Min) || (!math.IsNaN(st.Min) && st.Min < agg.Min) {
		agg.Min = st.Min
	}
	if math.IsNaN(agg.Max) || (!math.IsNaN(st.Max) && st.Max > agg.Max) {
		agg.Max = st.Max
	}
	return agg
}
