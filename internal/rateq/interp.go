package rateq

import "math"

// M is the number of 10ms output frames per 40ms rate-K envelope update:
// envelopes arrive every 40ms, so each one covers M=4 output frames.
const M = 4

// InterpolateRateK linearly interpolates between the previous and current
// K-bin envelopes at fraction t in [0,1].
func InterpolateRateK(prev, cur [K]float64, t float64) [K]float64 {
	var out [K]float64
	for k := range out {
		out[k] = prev[k] + t*(cur[k]-prev[k])
	}
	return out
}

// InterpolateWo linearly interpolates Wo between prevWo and curWo at
// fraction t, only when both endpoints are voiced; otherwise it returns
// the unvoiced default 2*pi/100.
func InterpolateWo(prevWo float64, prevVoiced bool, curWo float64, curVoiced bool, t float64) (wo float64, voiced bool) {
	if prevVoiced && curVoiced {
		return prevWo + t*(curWo-prevWo), true
	}
	return 2 * math.Pi / 100, false
}

// VoicingForSubframe returns the voicing flag of one of the M interpolated
// subframes. On a voicing transition the first M/2 subframes take
// prevVoiced and the rest take curVoiced, so the split is even and neither
// voiced nor unvoiced is favoured. subframe is in [0, M).
func VoicingForSubframe(prevVoiced, curVoiced bool, subframe int) bool {
	if prevVoiced == curVoiced {
		return curVoiced
	}
	// Transition: bias the first half of the window toward prevVoiced and
	// the second half toward curVoiced.
	if subframe < M/2 {
		return prevVoiced
	}
	return curVoiced
}
