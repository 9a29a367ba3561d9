package lspquant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestScalarQuantizeDequantizeStaysInCodebookRange(t *testing.T) {
	lsp := equallySpaced(Order)
	idx := ScalarQuantize(lsp)
	out := ScalarDequantize(idx)
	for i := range out {
		assert.InDelta(t, lsp[i], out[i], 0.5)
	}
}

func TestDifferentialRoundTripMonotonic(t *testing.T) {
	lsp := equallySpaced(Order)
	idx := DifferentialQuantize(lsp)
	out := DifferentialDequantize(idx)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i], out[i-1])
	}
}

func TestEnergyQuantizeRoundTripWithinStep(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := rapid.Float64Range(energyMinDB, energyMaxDB).Draw(t, "db")
		idx := QuantizeEnergy(db)
		got := DequantizeEnergy(idx)
		step := (energyMaxDB - energyMinDB) / float64(1<<EnergyBits-1)
		assert.InDelta(t, db, got, step)
	})
}

func TestEnergyQuantizeClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 0, QuantizeEnergy(-100))
	assert.Equal(t, (1<<EnergyBits)-1, QuantizeEnergy(100))
}

func TestPredictiveQuantizeDequantizeReturnsOrderLengthVector(t *testing.T) {
	lsp := equallySpaced(Order)
	prev := equallySpaced(Order)
	idx, quantised := PredictiveQuantize(lsp, prev)
	assert.Len(t, quantised, Order)
	roundTrip := PredictiveDequantize(idx, prev)
	assert.Equal(t, quantised, roundTrip)
}
