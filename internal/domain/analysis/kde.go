package analysis

import (
	"math"
	"sort"

	"github.com/okian/olympics/internal/domain/types"
)

// DensityPoints is the number of grid points a density curve is evaluated on.
const DensityPoints = 500

// GaussianKDE estimates the density of sample with a Gaussian kernel and
// Scott's bandwidth (n^-1/5 times the sample standard deviation). The curve
// has the given number of grid points, evenly spaced from the sample minimum
// to its maximum.
// Samples with fewer than two values or no spread yield an empty curve.
func GaussianKDE(name string, sample []float64, points int) types.DensityCurve {
	curve := types.DensityCurve{Name: name, Samples: len(sample), X: []float64{}, Y: []float64{}}
	n := len(sample)
	if n < 2 || points < 2 {
		return curve
	}

	mean := 0.0
	for _, v := range sample {
		mean += v
	}
	mean /= float64(n)
	variance := 0.0
	for _, v := range sample {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return curve
	}
	h := math.Sqrt(variance) * math.Pow(float64(n), -0.2)
	curve.Bandwidth = h

	// Ages repeat a lot, so the kernel sum runs over distinct values with weights.
	weights := make(map[float64]int)
	for _, v := range sample {
		weights[v]++
	}
	values := make([]float64, 0, len(weights))
	for v := range weights {
		values = append(values, v)
	}
	sort.Float64s(values)

	lo, hi := values[0], values[len(values)-1]
	step := (hi - lo) / float64(points-1)
	norm := 1 / (float64(n) * h * math.Sqrt(2*math.Pi))

	curve.X = make([]float64, points)
	curve.Y = make([]float64, points)
	for i := 0; i < points; i++ {
		x := lo + float64(i)*step
		sum := 0.0
		for _, v := range values {
			z := (x - v) / h
			sum += float64(weights[v]) * math.Exp(-0.5*z*z)
		}
		curve.X[i] = x
		curve.Y[i] = sum * norm
	}
	return curve
}
