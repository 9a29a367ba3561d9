package lspquant

import (
	"math"

	"github.com/freedv-go/codec2/internal/dsp"
)

// Envelope returns the log-magnitude spectral envelope 5*log10(energy) -
// 20*log10(|A(e^jw)|) sampled at nfft/2+1 bins, the all-pole spectrum the
// LPC/LSP family hands to the phase synthesiser's minimum-phase step. The
// phase synthesiser consumes the same shape of envelope the rate-K path
// builds from its mel-spaced amplitudes.
func Envelope(a []float64, energy float64, nfft int) func(bin int) float64 {
	re := make([]float64, nfft)
	copy(re, a)
	im := make([]float64, nfft)
	dsp.FFT(re, im)

	mags := make([]float64, nfft/2+1)
	for k := 0; k <= nfft/2; k++ {
		mag := math.Hypot(re[k], im[k])
		if mag < 1e-6 {
			mag = 1e-6
		}
		mags[k] = mag
	}
	if energy < 1e-9 {
		energy = 1e-9
	}
	gainDB := 5 * math.Log10(energy)

	return func(bin int) float64 {
		if bin < 0 {
			bin = 0
		}
		if bin > nfft/2 {
			bin = nfft / 2
		}
		return gainDB - 20*math.Log10(mags[bin])
	}
}
