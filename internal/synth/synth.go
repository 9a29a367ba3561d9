// Package synth implements the sinusoidal synthesiser: harmonic
// summation via overlap-add with ear-protection limiting.
package synth

import "math"

// Synthesiser accumulates a triangular overlap-add window across frames.
// Memory holds the right half of the previous frame's synthesis, carried
// forward
type Synthesiser struct {
	nSamp  int
	memory []float64 // length nSamp, right half of previous frame
}

// NewSynthesiser returns a Synthesiser producing nSamp output samples per
// call.
func NewSynthesiser(nSamp int) *Synthesiser {
	return &Synthesiser{nSamp: nSamp, memory: make([]float64, nSamp)}
}

// triangularWindow returns Pn, the 2*nSamp-length window that is zero at
// the edges and 1 in the middle.
func triangularWindow(nSamp int) []float64 {
	n := 2 * nSamp
	w := make([]float64, n)
	mid := n / 2
	for i := 0; i < n; i++ {
		switch {
		case i <= mid:
			w[i] = float64(i) / float64(mid)
		default:
			w[i] = float64(n-i) / float64(mid)
		}
	}
	return w
}

// Synthesize evaluates sum_m A_m*cos(m*Wo*n + phi_m) for n in
// [0, 2*nSamp), windows it with the triangular Pn window, overlap-adds the
// carried-forward memory for the first nSamp output samples, applies ear
// protection, and keeps the right half as memory for next time.
func (s *Synthesiser) Synthesize(wo float64, l int, a, phi []float64) []int16 {
	n := 2 * s.nSamp
	frame := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for m := 1; m <= l; m++ {
			sum += a[m] * math.Cos(float64(m)*wo*float64(i)+phi[m])
		}
		frame[i] = sum
	}

	win := triangularWindow(s.nSamp)
	for i := range frame {
		frame[i] *= win[i]
	}

	out := make([]float64, s.nSamp)
	for i := 0; i < s.nSamp; i++ {
		out[i] = s.memory[i] + frame[i]
	}
	copy(s.memory, frame[s.nSamp:])

	earProtect(out)

	pcm := make([]int16, s.nSamp)
	for i, v := range out {
		pcm[i] = floatToInt16(v)
	}
	return pcm
}

// earProtect scales the whole frame by (30000/max)^2 if any sample
// exceeds 30000 in magnitude.
func earProtect(buf []float64) {
	maxAbs := 0.0
	for _, v := range buf {
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
	}
	if maxAbs > 30000 {
		scale := (30000 / maxAbs) * (30000 / maxAbs)
		for i := range buf {
			buf[i] *= scale
		}
	}
}

func floatToInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(math.Round(v))
}
