package fa

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FeatureStats summarizes one feature vector
type FeatureStats struct {
	PeakIndex int     `json:"peak_index"` // slot with the largest activation
	Peak      float64 `json:"peak"`
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"` // population standard deviation
	Sum       float64 `json:"sum"`
	NonZero   int     `json:"non_zero"`
	Len       int     `json:"len"`
}

// Summarize computes statistics over every entry of fv.
func Summarize(fv mat.Vector) FeatureStats {
	n := fv.Len()
	if n == 0 {
		return FeatureStats{}
	}
	data := mat.Col(nil, 0, fv)

	fs := FeatureStats{
		PeakIndex: floats.MaxIdx(data),
		Sum:       floats.Sum(data),
		Len:       n,
	}
	fs.Peak = data[fs.PeakIndex]
	fs.Mean, fs.Std = stat.PopMeanStdDev(data, nil)
	for _, v := range data {
		if v != 0 {
			fs.NonZero++
		}
	}
	return fs
}
