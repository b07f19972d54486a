// Package profiling describes the shape of a distribution of measurements.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Shape holds quartiles and moment-based shape statistics of a sample
type Shape struct {
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	// Outliers counts values beyond 1.5 IQR of the quartiles
	Outliers int `json:"outliers"`
}

// Describe computes the shape of data. Statistics that need more values
// than are available are left at zero.
func Describe(data []float64) Shape {
	var shape Shape
	if len(data) == 0 {
		return shape
	}

	// Percentile only fails on empty input
	shape.Q25, _ = stats.Percentile(data, 25)
	shape.Q75, _ = stats.Percentile(data, 75)
	shape.Outliers = detectOutliers(data, shape.Q25, shape.Q75)

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	if stdDev == 0 {
		return shape
	}
	shape.Skewness = calculateSkewness(data, mean, stdDev)
	shape.Kurtosis = calculateKurtosis(data, mean, stdDev)
	return shape
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 {
		return 0
	}

	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}

	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes bias-corrected sample excess kurtosis
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 {
		return 0
	}

	n := float64(len(data))
	sumFourth := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}

	g2 := sumFourth/n - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

// detectOutliers counts values outside the Tukey fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
