// Package sinusoidal implements the per-frame harmonic analysis known as
// the Sinusoidal Analyser: pitch estimation, harmonic amplitude/phase
// estimation, and MBE voicing classification.
package sinusoidal

import "github.com/freedv-go/codec2/internal/c2const"

// Model is one analysis frame's sinusoidal parameters, matching this module's
// "Sinusoidal Model" entity. A[0] and Phi[0] are unused; A[m] is zero for
// m > L.
type Model struct {
	Wo     float64 // fundamental angular frequency, radians/sample
	L      int     // harmonic count, floor(pi/Wo), capped at MaxAmp
	A      [c2const.MaxAmp + 1]float64
	Phi    [c2const.MaxAmp + 1]float64
	Voiced bool
}

// clampWo clamps wo into [WoMin, WoMax], the invariant every frame must
// satisfy. It does not compute L; the caller derives L from the result.
func clampWo(wo float64, c c2const.C2Const) float64 {
	if wo < c.WoMin {
		wo = c.WoMin
	}
	if wo > c.WoMax {
		wo = c.WoMax
	}
	return wo
}
