package lspquant

import (
	"math"

	"github.com/freedv-go/codec2/internal/mbest"
)

// PredictiveBits is the total bit budget of the 3-stage predictive VQ (JMV).
const PredictiveBits = 27

// predictive VQ stage sizes: stage 1 is full-dimension (Order entries of
// dim Order), stages 2/3 split even/odd dimensions (dim Order/2 each).
var (
	predStage1Bits = 9 // 512 entries, full Order dims
	predStage2Bits = 9 // 512 entries, even dims (5)
	predStage3Bits = 9 // 512 entries, odd dims (5)
)

var (
	predStage1CB = buildPredictiveStage(1<<predStage1Bits, Order, 0.0, math.Pi)
	predStage2CB = buildPredictiveStage(1<<predStage2Bits, Order/2, -0.2, 0.2)
	predStage3CB = buildPredictiveStage(1<<predStage3Bits, Order/2, -0.2, 0.2)
)

// buildPredictiveStage synthesises a deterministic pseudo-random codebook
// of the given entry count and dimension spanning [lo, hi]; trained
// codebooks are an out-of-scope external tool (vqtrain/vq_mbest).
func buildPredictiveStage(entries, dim int, lo, hi float64) []float64 {
	cb := make([]float64, entries*dim)
	state := uint32(0x2545F491)
	for i := range cb {
		state = state*1664525 + 1013904223
		frac := float64(state) / float64(1<<32)
		cb[i] = lo + (hi-lo)*frac
	}
	return cb
}

// adjacencyWeight returns w_i = 1/(0.01 + min gap to neighbours), the
// weighting used for the predictive VQ.
func adjacencyWeight(lsp []float64, i int) float64 {
	gap := math.Inf(1)
	if i > 0 {
		gap = math.Min(gap, lsp[i]-lsp[i-1])
	}
	if i < len(lsp)-1 {
		gap = math.Min(gap, lsp[i+1]-lsp[i])
	}
	if math.IsInf(gap, 1) {
		gap = math.Pi / float64(len(lsp))
	}
	return 1 / (0.01 + gap)
}

// PredictiveQuantize runs the 3-stage predictive VQ: stage 1 over the
// full residual (target minus a first-order prediction from prevLSP),
// stages 2/3 over the even/odd-indexed dimensions of the stage-1
// residual, each weighted by adjacencyWeight. Returns the three stage
// indexes and the quantised LSP vector.
func PredictiveQuantize(lsp, prevLSP []float64) (idx [3]int, quantised []float64) {
	pred := make([]float64, Order)
	for i := range pred {
		pred[i] = 0.8 * prevLSP[i]
	}
	target := make([]float64, Order)
	w := make([]float64, Order)
	for i := range target {
		w[i] = adjacencyWeight(lsp, i)
		target[i] = (lsp[i] - pred[i]) * w[i]
	}

	weightedCB1 := applyWeights(predStage1CB, Order, w)
	s1 := mbest.NewSearcher(1)
	s1.Reset()
	s1.Stage(target, weightedCB1, 1<<predStage1Bits, Order)
	best1 := s1.Best()
	idx[0] = best1.Path[0]
	stage1Entry := predStage1CB[idx[0]*Order : idx[0]*Order+Order]

	resid := make([]float64, Order)
	for i := range resid {
		resid[i] = target[i] - stage1Entry[i]*w[i]
	}

	evenTarget := dimsWhere(resid, func(i int) bool { return i%2 == 0 })
	oddTarget := dimsWhere(resid, func(i int) bool { return i%2 == 1 })
	evenW := dimsWhere(w, func(i int) bool { return i%2 == 0 })
	oddW := dimsWhere(w, func(i int) bool { return i%2 == 1 })

	weightedCB2 := applyWeights(predStage2CB, Order/2, evenW)
	s2 := mbest.NewSearcher(1)
	s2.Reset()
	s2.Stage(evenTarget, weightedCB2, 1<<predStage2Bits, Order/2)
	idx[1] = s2.Best().Path[0]

	weightedCB3 := applyWeights(predStage3CB, Order/2, oddW)
	s3 := mbest.NewSearcher(1)
	s3.Reset()
	s3.Stage(oddTarget, weightedCB3, 1<<predStage3Bits, Order/2)
	idx[2] = s3.Best().Path[0]

	quantised = PredictiveDequantize(idx, prevLSP)
	return idx, quantised
}

// PredictiveDequantize reconstructs an LSP vector from the 3 predictive
// VQ stage indexes and the previous frame's quantised LSPs.
func PredictiveDequantize(idx [3]int, prevLSP []float64) []float64 {
	out := make([]float64, Order)
	for i := range out {
		out[i] = 0.8 * prevLSP[i]
	}
	stage1 := predStage1CB[idx[0]*Order : idx[0]*Order+Order]
	for i := range out {
		out[i] += stage1[i]
	}
	stage2 := predStage2CB[idx[1]*(Order/2) : idx[1]*(Order/2)+Order/2]
	stage3 := predStage3CB[idx[2]*(Order/2) : idx[2]*(Order/2)+Order/2]
	ei, oi := 0, 0
	for i := range out {
		if i%2 == 0 {
			out[i] += stage2[ei]
			ei++
		} else {
			out[i] += stage3[oi]
			oi++
		}
	}
	return out
}

func dimsWhere(v []float64, pred func(int) bool) []float64 {
	var out []float64
	for i, x := range v {
		if pred(i) {
			out = append(out, x)
		}
	}
	return out
}

func applyWeights(cb []float64, dim int, w []float64) []float64 {
	out := make([]float64, len(cb))
	entries := len(cb) / dim
	for e := 0; e < entries; e++ {
		for d := 0; d < dim; d++ {
			out[e*dim+d] = cb[e*dim+d] * w[d]
		}
	}
	return out
}
