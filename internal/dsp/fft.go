// Package dsp holds the small numeric kernels shared by the sinusoidal
// analyser, phase synthesiser and rate-K quantiser. The full OFDM/FSK FFT
// kernel is a black-boxed external component; this
// file provides the minimal power-of-two complex FFT the core algorithms
// need to turn windowed speech into a spectrum, since no third-party FFT
// library appears anywhere in the retrieval pack (see DESIGN.md).
package dsp

import "math"

// FFT computes the in-place forward complex FFT of re/im (length must be a
// power of two). A classic iterative radix-2 Cooley-Tukey, bit-reversal
// permutation followed by butterfly stages.
func FFT(re, im []float64) {
	n := len(re)
	if n != len(im) || n&(n-1) != 0 {
		panic("dsp: FFT length must be a power of two and match im")
	}
	bitReverse(re, im)
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		theta := -2 * math.Pi / float64(size)
		wr, wi := math.Cos(theta), math.Sin(theta)
		for start := 0; start < n; start += size {
			curR, curI := 1.0, 0.0
			for k := 0; k < half; k++ {
				i0, i1 := start+k, start+k+half
				tr := re[i1]*curR - im[i1]*curI
				ti := re[i1]*curI + im[i1]*curR
				re[i1] = re[i0] - tr
				im[i1] = im[i0] - ti
				re[i0] += tr
				im[i0] += ti
				nr := curR*wr - curI*wi
				ni := curR*wi + curI*wr
				curR, curI = nr, ni
			}
		}
	}
}

// IFFT computes the in-place inverse complex FFT, including the 1/N scale.
func IFFT(re, im []float64) {
	n := len(re)
	for i := range im {
		im[i] = -im[i]
	}
	FFT(re, im)
	invN := 1.0 / float64(n)
	for i := range re {
		re[i] *= invN
		im[i] = -im[i] * invN
	}
}

func bitReverse(re, im []float64) {
	n := len(re)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
}

// NextPow2 returns the smallest power of two >= n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Hann fills w (length n) with a symmetric Hann window.
func Hann(w []float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1
		return
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
}

// Hamming fills w (length n) with a Hamming window.
func Hamming(w []float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1
		return
	}
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
}
