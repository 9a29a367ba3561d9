// Package rateq implements the rate-K mel amplitude quantiser ("newamp1"),
// used by the 700C and 450 modes.
package rateq

import (
	"math"

	"github.com/freedv-go/codec2/internal/mbest"
)

// K is the fixed mel-grid dimension.
const K = 20

const (
	melLoHz = 200.0
	melHiHz = 3700.0
)

func hzToMel(f float64) float64 { return 2595 * math.Log10(1+f/700) }
func melToHz(m float64) float64 { return 700 * (math.Pow(10, m/2595) - 1) }

// MelGrid returns the K mel-spaced frequencies (Hz) between melLoHz and
// melHiHz.
func MelGrid() [K]float64 {
	var grid [K]float64
	mLo, mHi := hzToMel(melLoHz), hzToMel(melHiHz)
	for k := 0; k < K; k++ {
		m := mLo + (mHi-mLo)*float64(k)/float64(K-1)
		grid[k] = melToHz(m)
	}
	return grid
}

// ResampleToRateK converts harmonic magnitudes A[1..L] (linear) sampled at
// multiples of Wo (rad/sample, Fs-relative) into the K-bin mel-spaced dB
// vector, via piecewise-parabolic interpolation over L+2 anchor points
// (0Hz and Fs/2 pinned to 0dB), clipped to [peak-50dB, peak].
func ResampleToRateK(a []float64, l int, wo float64, fs int) [K]float64 {
	freqHz := make([]float64, l+2)
	ampDB := make([]float64, l+2)
	freqHz[0] = 0
	ampDB[0] = 0
	for m := 1; m <= l; m++ {
		freqHz[m] = float64(m) * wo * float64(fs) / (2 * math.Pi)
		v := a[m]
		if v < 1e-6 {
			v = 1e-6
		}
		ampDB[m] = 20 * math.Log10(v)
	}
	freqHz[l+1] = float64(fs) / 2
	ampDB[l+1] = 0

	peak := ampDB[1]
	for _, v := range ampDB[1 : l+1] {
		if v > peak {
			peak = v
		}
	}
	floor := peak - 50
	for i := 1; i <= l; i++ {
		if ampDB[i] < floor {
			ampDB[i] = floor
		}
	}

	grid := MelGrid()
	var out [K]float64
	for k, f := range grid {
		out[k] = parabolicInterp(freqHz, ampDB, f)
	}
	return out
}

// parabolicInterp finds the two anchors bracketing x and fits a local
// parabola through the bracketing pair and their nearest neighbour, a
// lightweight stand-in for libcodec2's full piecewise-parabolic resampler.
func parabolicInterp(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := 1
	for i < n-1 && xs[i] < x {
		i++
	}
	// Anchors (i-1, i); pick a third point for the parabola when available.
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	if i+1 < n {
		x2, y2 := xs[i+1], ys[i+1]
		return quadFit(x0, y0, x1, y1, x2, y2, x)
	}
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

func quadFit(x0, y0, x1, y1, x2, y2, x float64) float64 {
	l0 := (x - x1) * (x - x2) / ((x0 - x1) * (x0 - x2))
	l1 := (x - x0) * (x - x2) / ((x1 - x0) * (x1 - x2))
	l2 := (x - x0) * (x - x1) / ((x2 - x0) * (x2 - x1))
	return y0*l0 + y1*l1 + y2*l2
}

// RemoveMean subtracts the arithmetic mean across the K bins and returns
// the mean-removed vector and the mean.
func RemoveMean(v [K]float64) (meanRemoved [K]float64, mean float64) {
	for _, x := range v {
		mean += x
	}
	mean /= K
	for i, x := range v {
		meanRemoved[i] = x - mean
	}
	return meanRemoved, mean
}

// meanCodebook is the 16-entry scalar mean codebook.
var meanCodebook = buildMeanCodebook()

func buildMeanCodebook() []float64 {
	const n = 16
	cb := make([]float64, n)
	lo, hi := -20.0, 40.0
	for i := range cb {
		cb[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return cb
}

// QuantizeMean returns the nearest 16-entry codebook index for mean.
func QuantizeMean(mean float64) int {
	best, bestCost := 0, math.Inf(1)
	for i, c := range meanCodebook {
		d := (c - mean) * (c - mean)
		if d < bestCost {
			bestCost, best = d, i
		}
	}
	return best
}

// DequantizeMean inverts QuantizeMean.
func DequantizeMean(idx int) float64 { return meanCodebook[idx] }

// MeanBits is the bit width of the mean codebook index.
const MeanBits = 4

// VQ stage codebooks: 9 bits each (512 entries), dim K.
const (
	VQ1Bits = 9
	VQ2Bits = 9
	MBestB  = 5
)

var (
	vq1CB = buildVQCodebook(1<<VQ1Bits, K, 0x1234ABCD)
	vq2CB = buildVQCodebook(1<<VQ2Bits, K, 0x87654321)
)

func buildVQCodebook(entries, dim int, seed uint32) []float64 {
	cb := make([]float64, entries*dim)
	state := seed
	for i := range cb {
		state = state*1664525 + 1013904223
		cb[i] = (float64(state)/float64(1<<32)*2 - 1) * 15
	}
	return cb
}

// TwoStageVQ runs the 9+9 bit mbest two-stage search with beam width
// MBestB between stages, and returns the two stage indexes and the
// reconstructed mean-removed vector.
func TwoStageVQ(meanRemoved [K]float64) (idx [2]int, reconstructed [K]float64) {
	target := meanRemoved[:]
	s := mbest.NewSearcher(MBestB)
	s.Reset()
	s.Stage(target, vq1CB, 1<<VQ1Bits, K)
	survivors := s.Survivors()

	bestCost := math.Inf(1)
	var bestI1, bestI2 int
	for _, cand := range survivors {
		i1 := cand.Path[0]
		residual := mbest.Residual(target, vq1CB, K, i1)
		s2 := mbest.NewSearcher(1)
		s2.Reset()
		s2.Stage(residual, vq2CB, 1<<VQ2Bits, K)
		best2 := s2.Best()
		cost := best2.Cost
		if cost < bestCost {
			bestCost, bestI1, bestI2 = cost, i1, best2.Path[0]
		}
	}

	idx[0], idx[1] = bestI1, bestI2
	stage1 := vq1CB[bestI1*K : bestI1*K+K]
	stage2 := vq2CB[bestI2*K : bestI2*K+K]
	for i := 0; i < K; i++ {
		reconstructed[i] = stage1[i] + stage2[i]
	}
	return idx, reconstructed
}

// DequantizeTwoStageVQ reconstructs the mean-removed vector from the two
// stage indexes, without re-running the search.
func DequantizeTwoStageVQ(idx [2]int) [K]float64 {
	var out [K]float64
	stage1 := vq1CB[idx[0]*K : idx[0]*K+K]
	stage2 := vq2CB[idx[1]*K : idx[1]*K+K]
	for i := 0; i < K; i++ {
		out[i] = stage1[i] + stage2[i]
	}
	return out
}

// SingleStageVQ runs only the first VQ1Bits stage, for the lowest-rate mode
// that cannot afford the second stage's bits.
func SingleStageVQ(meanRemoved [K]float64) (idx int, reconstructed [K]float64) {
	s := mbest.NewSearcher(1)
	s.Reset()
	s.Stage(meanRemoved[:], vq1CB, 1<<VQ1Bits, K)
	idx = s.Best().Path[0]
	entry := vq1CB[idx*K : idx*K+K]
	copy(reconstructed[:], entry)
	return idx, reconstructed
}

// DequantizeSingleStageVQ inverts SingleStageVQ.
func DequantizeSingleStageVQ(idx int) [K]float64 {
	var out [K]float64
	copy(out[:], vq1CB[idx*K:idx*K+K])
	return out
}

// WoBits is the 6-bit log-domain Wo index width; index 0 signals unvoiced.
const WoBits = 6

var woMinRad, woMaxRad float64 = 2 * math.Pi / 500, 2 * math.Pi / 20

// QuantizeWo log-encodes wo into a 6-bit index; voiced=false forces index
// 0 (the "unvoiced" sentinel).
func QuantizeWo(wo float64, voiced bool) int {
	if !voiced {
		return 0
	}
	n := 1 << WoBits
	lo, hi := math.Log(woMinRad), math.Log(woMaxRad)
	idx := int(math.Round((math.Log(wo) - lo) / (hi - lo) * float64(n-2)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-2 {
		idx = n - 2
	}
	return idx + 1
}

// DequantizeWo inverts QuantizeWo. Index 0 returns the unvoiced default
// 2*pi/100 and voiced=false.
func DequantizeWo(idx int) (wo float64, voiced bool) {
	if idx == 0 {
		return 2 * math.Pi / 100, false
	}
	n := 1 << WoBits
	lo, hi := math.Log(woMinRad), math.Log(woMaxRad)
	frac := float64(idx-1) / float64(n-2)
	return math.Exp(lo + frac*(hi-lo)), true
}
