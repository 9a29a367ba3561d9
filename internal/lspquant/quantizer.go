package lspquant

import "math"

// ScalarBits is the total bit budget of the independent per-coefficient
// scalar LSP quantiser.
const ScalarBits = 36

// scalarCodebookBits assigns each of the 10 LSP coefficients a codebook
// size summing to ScalarBits, wider codebooks for the lower, perceptually
// more important coefficients.
var scalarCodebookBits = [Order]int{4, 4, 4, 4, 4, 4, 4, 4, 2, 2}

// scalarCodebooks holds, per coefficient, a uniformly spaced codebook
// spanning that coefficient's typical range. Real deployments train these
// on a speech corpus; a uniform codebook is substituted here since codebook
// training is an out-of-scope external tool (vqtrain, vq_mbest).
var scalarCodebooks = buildScalarCodebooks()

func buildScalarCodebooks() [Order][]float64 {
	var cb [Order][]float64
	for i := 0; i < Order; i++ {
		bits := scalarCodebookBits[i]
		n := 1 << uint(bits)
		lo := math.Pi * float64(i) / float64(Order+1) * 0.5
		hi := math.Pi * float64(i+2) / float64(Order+1) * 1.5
		if hi > math.Pi {
			hi = math.Pi
		}
		entries := make([]float64, n)
		for k := 0; k < n; k++ {
			entries[k] = lo + (hi-lo)*float64(k)/float64(n-1)
		}
		cb[i] = entries
	}
	return cb
}

// ScalarCodebookBits returns the per-coefficient bit widths ScalarQuantize
// packs, so callers can lay out the scalar LSP fields in a bit-packed frame.
func ScalarCodebookBits() [Order]int { return scalarCodebookBits }

func nearest(cb []float64, v float64) (index int, value float64) {
	best := math.Inf(1)
	for i, c := range cb {
		d := (c - v) * (c - v)
		if d < best {
			best, index, value = d, i, c
		}
	}
	return
}

// ScalarQuantize quantises lsp independently per coefficient and returns
// the codebook indexes.
func ScalarQuantize(lsp []float64) []int {
	idx := make([]int, Order)
	for i := 0; i < Order; i++ {
		idx[i], _ = nearest(scalarCodebooks[i], lsp[i])
	}
	return idx
}

// ScalarDequantize reconstructs LSPs from scalar codebook indexes.
func ScalarDequantize(idx []int) []float64 {
	out := make([]float64, Order)
	for i := 0; i < Order; i++ {
		out[i] = scalarCodebooks[i][idx[i]]
	}
	return out
}

// diffCodebook is the shared codebook for differential (LSPd) coding of
// omega_i - omega_hat_{i-1}.
var diffCodebook = buildDiffCodebook()

// DiffBits is the per-coefficient bit width of the differential (LSPd)
// codebook.
const DiffBits = 4

func buildDiffCodebook() []float64 {
	n := 1 << DiffBits
	lo, hi := 0.0, math.Pi/float64(Order)*2.5
	cb := make([]float64, n)
	for k := 0; k < n; k++ {
		cb[k] = lo + (hi-lo)*float64(k)/float64(n-1)
	}
	return cb
}

// DifferentialQuantize codes omega_i - omega_hat_{i-1} against a shared
// codebook, the LSPd scheme.
func DifferentialQuantize(lsp []float64) []int {
	idx := make([]int, Order)
	prev := 0.0
	for i := 0; i < Order; i++ {
		diff := lsp[i] - prev
		ix, val := nearest(diffCodebook, diff)
		idx[i] = ix
		prev = prev + val
	}
	return idx
}

// DifferentialDequantize reconstructs LSPs from LSPd indexes.
func DifferentialDequantize(idx []int) []float64 {
	out := make([]float64, Order)
	prev := 0.0
	for i := 0; i < Order; i++ {
		prev = prev + diffCodebook[idx[i]]
		out[i] = prev
	}
	return out
}

// EnergyBits is the 5-bit log-domain energy quantiser bit width.
const EnergyBits = 5

const (
	energyMinDB = -10.0
	energyMaxDB = 40.0
)

// QuantizeEnergy maps an energy in dB to a 5-bit index, uniform over
// [-10, 40] dB.
func QuantizeEnergy(db float64) int {
	n := 1 << EnergyBits
	step := (energyMaxDB - energyMinDB) / float64(n-1)
	idx := int(math.Round((db - energyMinDB) / step))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// DequantizeEnergy inverts QuantizeEnergy.
func DequantizeEnergy(idx int) float64 {
	n := 1 << EnergyBits
	step := (energyMaxDB - energyMinDB) / float64(n-1)
	return energyMinDB + float64(idx)*step
}
