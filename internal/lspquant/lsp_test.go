package lspquant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLSPEquallySpacedOnFailureStrictlyIncreasing(t *testing.T) {
	lsp := equallySpaced(Order)
	require.Len(t, lsp, Order)
	for i := 1; i < len(lsp); i++ {
		assert.Greater(t, lsp[i], lsp[i-1])
	}
	assert.Greater(t, lsp[0], 0.0)
	assert.Less(t, lsp[len(lsp)-1], math.Pi)
}

func TestRepairOrderEnforcesMinimumGap(t *testing.T) {
	lsp := []float64{0.1, 0.1001, 0.3, 0.31, 0.9, 0.901, 1.5, 1.9, 2.5, 3.0}
	RepairOrder(lsp, 8000)
	for i := 1; i < len(lsp); i++ {
		gap := minGapRadians(8000, i)
		assert.GreaterOrEqual(t, lsp[i]-lsp[i-1], gap-1e-6)
	}
	assert.Greater(t, lsp[0], 0.0)
	assert.Less(t, lsp[len(lsp)-1], math.Pi)
}

func TestToLPCReturnsOrderPlusOneWithUnityLeadingCoefficient(t *testing.T) {
	lsp := equallySpaced(Order)
	a := ToLPC(lsp)
	require.Len(t, a, Order+1)
	assert.InDelta(t, 1.0, a[0], 1e-9)
}

func TestToLSPOnIdentityFilterIsBenign(t *testing.T) {
	// a = [1, 0, 0, ..., 0] (all-pass) still yields Order LSPs or the
	// benign fallback; either way the result must be strictly increasing
	// and within (0, pi).
	a := make([]float64, Order+1)
	a[0] = 1
	lsp, _ := ToLSP(a)
	require.Len(t, lsp, Order)
	for i := 1; i < len(lsp); i++ {
		assert.GreaterOrEqual(t, lsp[i], lsp[i-1])
	}
}
