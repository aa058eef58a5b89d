package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 Cooley-Tukey transform. len(data) must be a power of two.
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

	fEven := FFT(even)
	fOdd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = fEven[k] + w*fOdd[k]
		result[k+n/2] = fEven[k] - w*fOdd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of the first half of the FFT.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Spectrum removes the mean, zero-pads to a power of two and returns the
// power spectrum with the bin width in Hz.
func Spectrum(samples []float64, dt float64) (ps []float64, binHz float64) {
	n := 1
	for n < len(samples) {
		n *= 2
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	if len(samples) > 0 {
		mean /= float64(len(samples))
	}

	padded := make([]float64, n)
	for i, v := range samples {
		padded[i] = v - mean
	}

	return PowerSpectrum(padded), 1 / (float64(n) * dt)
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin, refined by parabolic interpolation. Zero when there is no signal.
func DominantFrequency(samples []float64, dt float64) float64 {
	if len(samples) < 4 || dt <= 0 {
		return 0
	}

	ps, binHz := Spectrum(samples, dt)

	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak == 0 || ps[peak] == 0 {
		return 0
	}

	offset := 0.0
	if peak > 0 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			offset = 0.5 * (a - c) / denom
		}
	}
	return (float64(peak) + offset) * binHz
}
