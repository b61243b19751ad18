package frame

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type DepthStats struct {
	Samples  int
	Valid    int
	Coverage float64
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// MeasureDepth summarises the valid samples of a float depth view.
func MeasureDepth(v View) DepthStats {
	n := v.Width * v.Height
	st := DepthStats{Samples: n}
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if d := v.Float32(i); isValidDepth(d) {
			values = append(values, float64(d))
		}
	}
	st.Valid = len(values)
	if st.Valid == 0 {
		return st
	}
	st.Coverage = float64(st.Valid) / float64(n)
	st.Min = floats.Min(values)
	st.Max = floats.Max(values)
	if st.Valid == 1 {
		st.Mean = values[0]
		return st
	}
	st.Mean, st.StdDev = stat.MeanStdDev(values, nil)
	return st
}

func isValidDepth(d float32) bool {
	f := float64(d)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
