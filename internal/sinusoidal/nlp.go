package sinusoidal

import (
	"math"

	"github.com/freedv-go/codec2/internal/c2const"
	"github.com/freedv-go/codec2/internal/dsp"
)

// peFFTSize is the zero-padded FFT length the NLP pitch search runs at,
// matching libcodec2's PE_FFT_SIZE.
const peFFTSize = 512

// decimation is the NLP pre-decimation factor at 8kHz: low-pass with a
// 48-tap FIR, then decimate by 5.
const decimation = 5

// cnlp is the sub-multiple acceptance threshold fraction of the global
// max
const cnlp = 0.3

// lpfTaps is the 48-tap decimating low-pass FIR, a windowed-sinc design
// with a ~600Hz cutoff at 8kHz (Fc/Fs = 0.075), matching the role of
// nlp.c's FIR table without reproducing its exact coefficients.
var lpfTaps = designLowpass(48, 0.075)

func designLowpass(n int, fc float64) []float64 {
	taps := make([]float64, n)
	m := float64(n - 1)
	var sum float64
	for i := 0; i < n; i++ {
		x := float64(i) - m/2
		var sinc float64
		if x == 0 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*x) / (math.Pi * x)
		}
		win := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/m) // Hamming
		taps[i] = sinc * win
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// NLP estimates the fundamental frequency F0 of a speech frame using a
// nonlinear-pitch-tracking method: notch-filter the squared signal,
// low-pass, decimate, window, zero-pad FFT, and search for integer
// sub-multiples of the global max bin.
//
// State (notch filter memory and the FIR delay line) is carried across
// calls as part of the encoder's persistent state; a half-band
// decimating variant is used when the caller's sample rate is 16kHz, so
// the pitch stage always runs after decimation by 2.
type NLP struct {
	c2const.C2Const

	notchX, notchY float64 // squared-signal notch filter memory
	firMem         []float64
	prevFo         float64 // previous frame's F0 estimate, Hz
	wideband       bool
}

// NewNLP returns an NLP estimator for the given session constants.
func NewNLP(c c2const.C2Const) *NLP {
	return &NLP{
		C2Const:  c,
		firMem:   make([]float64, len(lpfTaps)-1),
		wideband: c.Fs == 16000,
		prevFo:   150, // a reasonable voiced-male default
	}
}

// Estimate runs the pitch search over the m_pitch-length rolling input
// buffer (oldest sample first) and returns F0 in Hz.
func (n *NLP) Estimate(buf []float64) float64 {
	work := buf
	if n.wideband {
		work = halfBandDecimate(buf)
	}

	sq := make([]float64, len(work))
	for i, x := range work {
		sq[i] = x * x
	}

	notched := make([]float64, len(sq))
	x, y := n.notchX, n.notchY
	for i, s := range sq {
		ny := s - x + 0.95*y
		notched[i] = ny
		x, y = s, ny
	}
	n.notchX, n.notchY = x, y

	filtered := n.firFilter(notched)
	dec := decimate(filtered, decimation)

	win := make([]float64, len(dec))
	dsp.Hann(win)
	windowed := make([]float64, len(dec))
	for i := range dec {
		windowed[i] = dec[i] * win[i]
	}

	fftSize := dsp.NextPow2(peFFTSize)
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	copy(re, windowed)
	dsp.FFT(re, im)

	mag2 := make([]float64, fftSize/2+1)
	for i := range mag2 {
		mag2[i] = re[i]*re[i] + im[i]*im[i]
	}

	decFs := float64(effectiveFs(n.Fs, n.wideband)) / float64(decimation)
	binForFreq := func(freqHz float64) int {
		b := int(math.Round(freqHz / decFs * float64(fftSize)))
		if b < 0 {
			b = 0
		}
		if b > fftSize/2 {
			b = fftSize / 2
		}
		return b
	}
	freqForBin := func(bin int) float64 {
		return float64(bin) * decFs / float64(fftSize)
	}

	minBin := binForFreq(float64(effectiveFs(n.Fs, n.wideband)) / float64(n.PMax))
	maxBin := binForFreq(float64(effectiveFs(n.Fs, n.wideband)) / float64(n.PMin))
	if minBin < 1 {
		minBin = 1
	}
	if maxBin >= len(mag2) {
		maxBin = len(mag2) - 1
	}

	gmaxBin := minBin
	gmax := mag2[minBin]
	for b := minBin + 1; b <= maxBin; b++ {
		if mag2[b] > gmax {
			gmax = mag2[b]
			gmaxBin = b
		}
	}

	bestBin := gmaxBin
	prevBin := binForFreq(n.prevFo)

	for d := gmaxBin / minBin; d >= 2; d-- {
		if d == 0 {
			continue
		}
		candidate := gmaxBin / d
		if candidate < minBin {
			continue
		}
		lo := candidate - candidate/5
		hi := candidate + candidate/5
		if lo < minBin {
			lo = minBin
		}
		if hi > maxBin {
			hi = maxBin
		}

		thresh := cnlp * gmax
		if abs(candidate-prevBin) <= prevBin/5 {
			thresh *= 0.5
		}

		for b := lo; b <= hi; b++ {
			if b <= 0 || b >= len(mag2)-1 {
				continue
			}
			isPeak := mag2[b] >= mag2[b-1] && mag2[b] >= mag2[b+1]
			if isPeak && mag2[b] > thresh {
				bestBin = b
				break
			}
		}
	}

	f0 := freqForBin(bestBin)
	if f0 <= 0 {
		f0 = n.prevFo
	}
	n.prevFo = f0
	return f0
}

func (n *NLP) firFilter(x []float64) []float64 {
	out := make([]float64, len(x))
	ext := append(append([]float64(nil), n.firMem...), x...)
	for i := range x {
		var acc float64
		base := i + len(n.firMem)
		for k, tap := range lpfTaps {
			acc += tap * ext[base-k]
		}
		out[i] = acc
	}
	if len(x) >= len(n.firMem) {
		n.firMem = append([]float64(nil), x[len(x)-len(n.firMem):]...)
	}
	return out
}

func decimate(x []float64, d int) []float64 {
	out := make([]float64, 0, len(x)/d+1)
	for i := 0; i < len(x); i += d {
		out = append(out, x[i])
	}
	return out
}

// halfBandDecimate halves the sample rate with a short symmetric FIR,
// used for the 16kHz wideband NLP front end.
func halfBandDecimate(x []float64) []float64 {
	taps := []float64{0.0166, 0, -0.0693, 0, 0.3009, 0.5, 0.3009, 0, -0.0693, 0, 0.0166}
	out := make([]float64, 0, len(x)/2)
	half := len(taps) / 2
	for i := 0; i < len(x); i += 2 {
		var acc float64
		for k, tap := range taps {
			j := i + k - half
			if j >= 0 && j < len(x) {
				acc += tap * x[j]
			}
		}
		out = append(out, acc)
	}
	return out
}

func effectiveFs(fs int, wideband bool) int {
	if wideband {
		return fs / 2
	}
	return fs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
