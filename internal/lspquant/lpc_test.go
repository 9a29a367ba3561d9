package lspquant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevinsonDurbinOrder1(t *testing.T) {
	r := []float64{1.0, 0.5}
	a, e := LevinsonDurbin(r, 1)
	assert.InDelta(t, 1.0, a[0], 1e-9)
	assert.InDelta(t, -0.5, a[1], 1e-9)
	assert.InDelta(t, 0.75, e, 1e-9) // e = r0 + a1*r1 = 1 - 0.5*0.5
}

func TestBandwidthExpandPreservesA0(t *testing.T) {
	a := []float64{1, 0.5, -0.25, 0.1}
	out := BandwidthExpand(a)
	assert.Equal(t, 1.0, out[0])
	assert.InDelta(t, 0.5*0.994, out[1], 1e-9)
	assert.NotEqual(t, a[2], out[2])
}

func TestAutocorrelationSymmetricSignalNonNegativeEnergy(t *testing.T) {
	sig := make([]float64, 100)
	for i := range sig {
		sig[i] = float64(i%7) - 3
	}
	r := Autocorrelation(sig, Order)
	assert.Len(t, r, Order+1)
	assert.Greater(t, r[0], 0.0)
}

func TestEnergyDBMonotonic(t *testing.T) {
	assert.Less(t, EnergyDB(1), EnergyDB(10))
	assert.Less(t, EnergyDB(10), EnergyDB(100))
}
