// Package analysis extracts orbital periods from stored coordinate series.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform recursively. The input length
// must be a power of two.
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

// PowerSpectrum returns the magnitude of each frequency bin up to Nyquist.
// The series is zero-padded to a power of two and demeaned first, so a
// constant offset does not swamp the orbital signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantPeriod estimates the strongest periodicity in a series sampled
// every sampleDt seconds. Returns 0 when no oscillation stands out.
func DominantPeriod(data []float64, sampleDt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	n := 1
	for n < len(data) {
		n *= 2
	}

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower == 0 {
		return 0
	}

	freq := float64(maxIdx) / (float64(n) * sampleDt)
	return 1 / freq
}
