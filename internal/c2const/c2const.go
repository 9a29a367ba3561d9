// Package c2const derives the handful of sample-rate-dependent constants
// every other codec2 component shares. A C2Const is built once per
// session and never mutated.
package c2const

import "math"

// Frame period for one analysis frame, fixed at 10ms.
const FramePeriodS = 0.01

// Pitch period bounds in seconds.
const (
	PMinS = 0.0025
	PMaxS = 0.02
)

// MaxAmp caps the harmonic count L = floor(pi/Wo).
const MaxAmp = 160

// C2Const holds the constants derived from a sample rate for one session.
// Immutable after New.
type C2Const struct {
	Fs int // sample rate, 8000 or 16000

	NSamp   int // samples per 10ms analysis frame
	MPitch  int // pitch analysis window length, 6*NSamp
	PMax    int // floor(Fs*PMaxS), longest pitch period in samples
	PMin    int // floor(Fs*PMinS), shortest pitch period in samples
	WoMin   float64
	WoMax   float64
}

// New derives a C2Const for the given sample rate. Only 8000 and 16000 Hz
// are valid; callers should treat any other value
// as a configuration error.
func New(fs int) C2Const {
	nSamp := int(float64(fs) * FramePeriodS)
	pMin := int(float64(fs) * PMinS)
	pMax := int(float64(fs) * PMaxS)
	return C2Const{
		Fs:     fs,
		NSamp:  nSamp,
		MPitch: 6 * nSamp,
		PMax:   pMax,
		PMin:   pMin,
		WoMin:  2 * math.Pi / float64(pMax),
		WoMax:  2 * math.Pi / float64(pMin),
	}
}

// ValidSampleRate reports whether fs is a sample rate codec2 supports.
func ValidSampleRate(fs int) bool {
	return fs == 8000 || fs == 16000
}

// HarmonicCount returns L = floor(pi/Wo), capped at MaxAmp.
func HarmonicCount(wo float64) int {
	l := int(math.Pi / wo)
	if l > MaxAmp {
		l = MaxAmp
	}
	if l < 1 {
		l = 1
	}
	return l
}
