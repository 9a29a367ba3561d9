package sinusoidal

import (
	"math"

	"github.com/freedv-go/codec2/internal/c2const"
	"github.com/freedv-go/codec2/internal/dsp"
)

// Analyser turns a rolling m_pitch sample buffer into one Sinusoidal
// Model per 10ms frame.
type Analyser struct {
	c2const.C2Const
	nlp *NLP

	// buf is the rolling m_pitch-length input buffer, oldest sample
	// first, mutated in place by AddSamples.
	buf []float64

	fftSize int

	// win and winSpecMag are the analysis window and its own magnitude
	// spectrum (centred at bin 0), fixed for the life of the Analyser
	// since the window only depends on MPitch. winSpecMag is the
	// synthetic single-tone spectral shape the MBE voicing decision
	// compares each harmonic band against.
	win        []float64
	winSpecMag []float64
}

// NewAnalyser returns an Analyser for the given session constants.
func NewAnalyser(c c2const.C2Const) *Analyser {
	fftSize := dsp.NextPow2(4 * c.MPitch)
	win := make([]float64, c.MPitch)
	dsp.Hamming(win)

	winRe := make([]float64, fftSize)
	winIm := make([]float64, fftSize)
	copy(winRe, win)
	dsp.FFT(winRe, winIm)
	winSpecMag := make([]float64, fftSize)
	for i := range winSpecMag {
		winSpecMag[i] = math.Hypot(winRe[i], winIm[i])
	}

	return &Analyser{
		C2Const:    c,
		nlp:        NewNLP(c),
		buf:        make([]float64, c.MPitch),
		fftSize:    fftSize,
		win:        win,
		winSpecMag: winSpecMag,
	}
}

// AddSamples shifts nSamp new PCM samples into the rolling m_pitch
// buffer, discarding the oldest nSamp samples. len(samples) must equal
// NSamp.
func (a *Analyser) AddSamples(samples []float64) {
	n := len(samples)
	copy(a.buf, a.buf[n:])
	copy(a.buf[len(a.buf)-n:], samples)
}

// Buffer returns the current rolling m_pitch analysis window. The caller
// must not mutate the returned slice.
func (a *Analyser) Buffer() []float64 { return a.buf }

// Analyse produces one Model from the current buffer contents: NLP
// pitch estimate (clamped, with no further pitch refinement),
// per-harmonic amplitude and phase estimation from a Hamming-windowed
// DFT, and MBE voicing.
func (a *Analyser) Analyse() Model {
	f0 := a.nlp.Estimate(a.buf)
	wo := clampWo(2*math.Pi*f0/float64(a.Fs), a.C2Const)

	re := make([]float64, a.fftSize)
	im := make([]float64, a.fftSize)
	windowEnergy := 0.0
	for i, w := range a.win {
		re[i] = a.buf[i] * w
		windowEnergy += w * w
	}
	dsp.FFT(re, im)

	var m Model
	m.Wo = wo
	m.L = c2const.HarmonicCount(wo)

	binForFreq := func(freqRad float64) float64 {
		return freqRad / (2 * math.Pi) * float64(a.fftSize)
	}

	var modelError, totalEnergy float64
	for h := 1; h <= m.L; h++ {
		centre := binForFreq(float64(h) * wo)
		half := binForFreq(wo) / 2
		lo := int(math.Floor(centre - half))
		hi := int(math.Ceil(centre + half))
		if lo < 0 {
			lo = 0
		}
		if hi >= a.fftSize {
			hi = a.fftSize - 1
		}
		var energy float64
		var sumRe, sumIm float64
		for b := lo; b <= hi; b++ {
			energy += re[b]*re[b] + im[b]*im[b]
			sumRe += re[b]
			sumIm += im[b]
		}
		amp := math.Sqrt(energy / windowEnergy)
		m.A[h] = amp
		m.Phi[h] = math.Atan2(sumIm, sumRe)
		totalEnergy += energy

		// MBE per-band error: compare the actual band spectrum against
		// the spectrum a single sinusoid of amplitude amp centred on
		// this harmonic would produce (amp scaled by the window's own
		// spectral shape), not against the energy amp was derived from.
		centreBin := int(math.Round(centre))
		for b := lo; b <= hi; b++ {
			offset := ((b-centreBin)%a.fftSize + a.fftSize) % a.fftSize
			synthMag := amp * a.winSpecMag[offset]
			actualMag := math.Sqrt(re[b]*re[b] + im[b]*im[b])
			d := actualMag - synthMag
			modelError += d * d
		}
	}

	if modelError < 1e-9 {
		modelError = 1e-9
	}
	snr := totalEnergy / modelError
	m.Voiced = snr > mbeVoicingThreshold

	return m
}

// mbeVoicingThreshold is the MBE voiced/unvoiced SNR decision threshold:
// a frame whose total-energy-to-model-error ratio exceeds this is
// declared voiced.
const mbeVoicingThreshold = 2.0
