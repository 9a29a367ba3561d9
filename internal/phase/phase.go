// Package phase implements the minimum-phase harmonic phase synthesiser.
package phase

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/freedv-go/codec2/internal/dsp"
)

// NFFT is the cepstrum working size.
const NFFT = 128

// MinimumPhaseSpectrum computes the NFFT/2+1 complex minimum-phase
// spectrum from a magnitude envelope in dB: sample envelopeDB at each bin
// 0..NFFT/2 as given (no interpolation is applied here), build a
// symmetric log-magnitude spectrum, take
// the real cepstrum, fold it, and forward-transform to recover the
// minimum-phase spectrum.
func MinimumPhaseSpectrum(envelopeDB func(freqBin int) float64) []complex128 {
	n := NFFT
	logMag := make([]float64, n)
	for k := 0; k <= n/2; k++ {
		db := envelopeDB(k)
		logMag[k] = db * math.Ln10 / 20 // natural-log magnitude
	}
	for k := n/2 + 1; k < n; k++ {
		logMag[k] = logMag[n-k]
	}

	re := append([]float64(nil), logMag...)
	im := make([]float64, n)
	dsp.IFFT(re, im)
	cepstrum := re // real cepstrum

	folded := make([]float64, n)
	folded[0] = cepstrum[0]
	for k := 1; k < n/2; k++ {
		folded[k] = cepstrum[k] + cepstrum[n-k]
	}
	folded[n/2] = cepstrum[n/2]

	re2 := append([]float64(nil), folded...)
	im2 := make([]float64, n)
	dsp.FFT(re2, im2)

	spectrum := make([]complex128, n/2+1)
	for k := 0; k <= n/2; k++ {
		// The scaled imaginary part (already in the ln10/20 domain from
		// step 1) is the minimum phase step 4.
		spectrum[k] = cmplx.Exp(complex(0, im2[k]))
	}
	return spectrum
}

// ExcitationPhase tracks the synthesis excitation phase accumulator that
// advances by Wo*n_samp per 10ms frame, wrapped to (-pi, pi].
type ExcitationPhase struct {
	Value float64
}

// Advance moves the accumulator forward by wo*nSamp radians and wraps it.
func (e *ExcitationPhase) Advance(wo float64, nSamp int) {
	e.Value += wo * float64(nSamp)
	e.Value = wrap(e.Value)
}

func wrap(x float64) float64 {
	for x > math.Pi {
		x -= 2 * math.Pi
	}
	for x <= -math.Pi {
		x += 2 * math.Pi
	}
	return x
}

// HarmonicPhase computes phi_m for one harmonic:
// voiced frames start harmonic m's excitation at m*exPhase; unvoiced
// frames draw a uniform random phase in (-pi, pi]. The final phase is
// arg(H_m * E_m), where H_m is the minimum-phase spectrum sampled at the
// harmonic bin.
func HarmonicPhase(spectrum []complex128, bin int, m int, exPhase float64, voiced bool, rng *rand.Rand) float64 {
	var exArg float64
	if voiced {
		exArg = wrap(float64(m) * exPhase)
	} else {
		exArg = rng.Float64()*2*math.Pi - math.Pi
	}
	e := cmplx.Exp(complex(0, exArg))
	if bin < 0 {
		bin = 0
	}
	if bin >= len(spectrum) {
		bin = len(spectrum) - 1
	}
	h := spectrum[bin]
	product := h * e
	return cmplx.Phase(product)
}

// HarmonicBin rounds m*Wo*N/(2*pi) to the nearest integer bin.
func HarmonicBin(m int, wo float64, n int) int {
	return int(math.Round(float64(m) * wo * float64(n) / (2 * math.Pi)))
}
