package rateq

import "math"

// Postfilter applies the decoder-side newamp1 postfilter: pre-emphasise
// by adding 20*log10(f_k/300Hz) dB (f_k in Hz), multiply by gain,
// and renormalise so total spectrum energy is unchanged, then undo the
// pre-emphasis. Applied to the mean-removed vector before the mean is
// re-added.
func Postfilter(meanRemoved [K]float64, gain float64) [K]float64 {
	grid := MelGrid()
	preemph := make([]float64, K)
	for k, f := range grid {
		preemph[k] = 20 * math.Log10(f/300)
	}

	before := sumPow10(meanRemoved[:])

	boosted := make([]float64, K)
	for k := range boosted {
		boosted[k] = (meanRemoved[k] + preemph[k]) * gain
	}

	after := sumPow10(boosted)
	var renorm float64
	if after > 0 {
		renorm = 10 * math.Log10(before/after)
	}

	var out [K]float64
	for k := range out {
		out[k] = boosted[k] + renorm - preemph[k]
	}
	return out
}

func sumPow10(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += math.Pow(10, x/10)
	}
	return sum
}

// Equaliser adapts a slow-leaky (gain 0.02) running estimate of the
// "ideal" envelope and subtracts the adaptive spectral tilt from the
// input before VQ. It is an encoder-side opt-in.
type Equaliser struct {
	ideal [K]float64
	init  bool
}

// Apply updates the running ideal envelope from v and returns the
// tilt-corrected vector the VQ search should target.
func (e *Equaliser) Apply(v [K]float64) [K]float64 {
	const leak = 0.02
	if !e.init {
		e.ideal = v
		e.init = true
	} else {
		for k := range e.ideal {
			e.ideal[k] = (1-leak)*e.ideal[k] + leak*v[k]
		}
	}
	var out [K]float64
	for k := range out {
		out[k] = v[k] - e.ideal[k]
	}
	return out
}

// Reset clears the equaliser's adaptive state. Reloading a codebook
// mid-session leaves equaliser interaction undefined; callers should call
// Reset when they reload a codebook.
func (e *Equaliser) Reset() {
	e.init = false
	e.ideal = [K]float64{}
}
