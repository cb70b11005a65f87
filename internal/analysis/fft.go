// Package analysis provides frequency analysis of recorded
// trajectories.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/partsim/internal/vec"
)

// Axis selects a coordinate when extracting a time series from
// trajectory snapshots.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum truncates the series to the largest power-of-two
// prefix and returns the magnitudes of the first half of its
// transform.
func PowerSpectrum(data []float64) []float64 {
	data = truncatePow2(data)
	if len(data) == 0 {
		return nil
	}

	fft := FFT(data)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Component extracts one particle's coordinate as a time series from
// per-frame position snapshots.
func Component(frames [][]vec.Vec3, index int, axis Axis) []float64 {
	series := make([]float64, 0, len(frames))
	for _, frame := range frames {
		if index < 0 || index >= len(frame) {
			continue
		}
		switch axis {
		case AxisX:
			series = append(series, frame[index].X)
		case AxisY:
			series = append(series, frame[index].Y)
		case AxisZ:
			series = append(series, frame[index].Z)
		}
	}
	return series
}

// DominantFrequency returns the strongest non-DC frequency in Hz,
// given the rate the series was sampled at. Returns 0 for series too
// short to transform.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	data = truncatePow2(data)
	if len(data) < 4 || sampleRate <= 0 {
		return 0
	}

	// Remove the mean so a large DC offset cannot leak into
	// neighboring bins.
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}

	return float64(best) * sampleRate / float64(len(data))
}

func truncatePow2(data []float64) []float64 {
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	if len(data) == 0 {
		return nil
	}
	return data[:n]
}
