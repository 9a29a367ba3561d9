package lspquant

import "math"

// JointVQBits is the index width of the joint Wo-energy VQ codebook used
// by the 2400/1400/1300/1200 modes.
const JointVQBits = 8 // 256 entries

// jointCB holds 256 entries of (dWo, dE) residual vectors, a deterministic
// synthetic codebook standing in for one trained on a speech corpus.
var jointCB = buildJointCodebook()

func buildJointCodebook() [][2]float64 {
	const n = 1 << JointVQBits
	cb := make([][2]float64, n)
	state := uint32(0x9E3779B9)
	for i := range cb {
		state = state*1664525 + 1013904223
		dWo := (float64(state)/float64(1<<32)*2 - 1) * 1.5
		state = state*1664525 + 1013904223
		dE := (float64(state)/float64(1<<32)*2 - 1) * 20
		cb[i] = [2]float64{dWo, dE}
	}
	return cb
}

// JointWoEPredictorState carries the 2-float predictor memory that is
// part of the encoder's persistent state.
type JointWoEPredictorState struct {
	PrevXWo, PrevXE float64
}

// jointLogWo maps Wo to the log-domain feature the joint VQ codebook
// works in: x_Wo = log2(4000*Wo/(pi*50)).
func jointLogWo(wo float64) float64 {
	return math.Log2(4000 * wo / (math.Pi * 50))
}

func jointLogWoInverse(x float64) float64 {
	return math.Pi * 50 * math.Exp2(x) / 4000
}

// jointLogEnergy maps energy (linear, pre-dB) to x_E = 10*log10(1e-4+E).
func jointLogEnergy(e float64) float64 {
	return 10 * math.Log10(1e-4+e)
}

// Quantize runs the weighted nearest-neighbour joint Wo-energy VQ search,
// updating the predictor state in place, and returns the chosen codebook
// index.
func (st *JointWoEPredictorState) Quantize(wo, energy float64) int {
	xWo := jointLogWo(wo)
	xE := jointLogEnergy(energy)

	predWo := 0.8 * st.PrevXWo
	predE := 0.9 * st.PrevXE
	dWo := xWo - predWo
	dE := xE - predE

	wWo, wE := jointWeights(xE, dWo, st.PrevXE)

	best := -1
	bestCost := math.Inf(1)
	for i, c := range jointCB {
		ddWo := dWo - c[0]
		ddE := dE - c[1]
		cost := wWo*ddWo*ddWo + wE*ddE*ddE
		if cost < bestCost {
			bestCost, best = cost, i
		}
	}

	st.PrevXWo, st.PrevXE = predWo+jointCB[best][0], predE+jointCB[best][1]
	return best
}

// Dequantize reconstructs (Wo, energy) from a codebook index, advancing
// the same predictor state the encoder used. Energy is clamped at zero;
// Wo is returned as decoded, without clamping.
func (st *JointWoEPredictorState) Dequantize(index int) (wo, energy float64) {
	predWo := 0.8 * st.PrevXWo
	predE := 0.9 * st.PrevXE
	xWo := predWo + jointCB[index][0]
	xE := predE + jointCB[index][1]
	st.PrevXWo, st.PrevXE = xWo, xE

	wo = jointLogWoInverse(xWo)
	energy = math.Pow(10, xE/10) - 1e-4
	if energy < 0 {
		energy = 0
	}
	return wo, energy
}

// jointWeights implements the weight-multiplier table used by the joint
// Wo-energy VQ search.
func jointWeights(xE, deltaWo, prevXE float64) (wWo, wE float64) {
	wWo, wE = 30*30, 1*1
	if xE < 0 {
		wWo *= 0.6 * 0.6
		wE *= 0.3 * 0.3
	}
	if xE < -10 {
		wWo *= 0.3 * 0.3
		wE *= 0.3 * 0.3
	}
	adWo := math.Abs(deltaWo)
	if adWo < 0.2 {
		wWo *= 2 * 2
		wE *= 1.5 * 1.5
	} else if adWo > 0.5 {
		wWo *= 0.5 * 0.5
	}
	if xE < prevXE-10 {
		wE *= 0.5 * 0.5
	}
	if xE < prevXE-20 {
		wE *= 0.5 * 0.5
	}
	return wWo, wE
}
