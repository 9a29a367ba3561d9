package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFFTThenIFFTIsIdentity(t *testing.T) {
	n := 64
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = math.Sin(2 * math.Pi * 5 * float64(i) / float64(n))
	}
	orig := append([]float64(nil), re...)

	FFT(re, im)
	IFFT(re, im)

	for i := range re {
		assert.InDelta(t, orig[i], re[i], 1e-9)
		assert.InDelta(t, 0, im[i], 1e-9)
	}
}

func TestFFTPureToneBinEnergy(t *testing.T) {
	n := 32
	bin := 3
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = math.Cos(2 * math.Pi * float64(bin) * float64(i) / float64(n))
	}
	FFT(re, im)
	for k := 0; k < n; k++ {
		mag := math.Hypot(re[k], im[k])
		if k == bin || k == n-bin {
			assert.Greater(t, mag, float64(n)/2-1)
		} else {
			assert.Less(t, mag, 1.0)
		}
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 512: 512, 513: 1024}
	for in, want := range cases {
		assert.Equal(t, want, NextPow2(in))
	}
}
