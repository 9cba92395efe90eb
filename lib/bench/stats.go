package bench

import "math"

// Stats summarizes a series of samples, e.g. the QPS seen once per second
type Stats struct {
	Samples      int     `json:"samples"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	StdDeviation float64 `json:"std_deviation"`
	// MinMaxRatio is 1 for a perfectly steady series
	MinMaxRatio float64 `json:"min_max_ratio"`
}

// NewStats computes min, max, mean and the population standard deviation
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	s := Stats{Samples: len(values), Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))

	var squares float64
	for _, v := range values {
		squares += (v - s.Mean) * (v - s.Mean)
	}
	s.StdDeviation = math.Sqrt(squares / float64(len(values)))

	s.MinMaxRatio = 1
	if s.Max > 0 {
		s.MinMaxRatio = s.Min / s.Max
	}
	return s
}
