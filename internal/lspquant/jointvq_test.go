package lspquant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJointWoEQuantizeDequantizeAdvancesSymmetricState(t *testing.T) {
	encSt := &JointWoEPredictorState{}
	decSt := &JointWoEPredictorState{}

	wo, energy := 0.3, 50.0
	idx := encSt.Quantize(wo, energy)
	gotWo, gotEnergy := decSt.Dequantize(idx)

	assert.Greater(t, gotWo, 0.0)
	assert.GreaterOrEqual(t, gotEnergy, 0.0)
	assert.Equal(t, encSt.PrevXWo, decSt.PrevXWo)
	assert.Equal(t, encSt.PrevXE, decSt.PrevXE)
}

func TestJointWeightsLowEnergyShrinksWoWeight(t *testing.T) {
	baseline, _ := jointWeights(5, 0.3, 5)
	low, _ := jointWeights(-15, 0.3, 5)
	assert.Less(t, low, baseline)
}
