package rateq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMelGridIsIncreasingWithinBand(t *testing.T) {
	grid := MelGrid()
	assert.InDelta(t, melLoHz, grid[0], 1e-6)
	assert.InDelta(t, melHiHz, grid[K-1], 1e-6)
	for i := 1; i < K; i++ {
		assert.Greater(t, grid[i], grid[i-1])
	}
}

func TestResampleToRateKClipsToFloor(t *testing.T) {
	l := 10
	a := make([]float64, l+1)
	wo := 2 * math.Pi * 100 / 8000
	for m := 1; m <= l; m++ {
		a[m] = 1.0
	}
	a[1] = 1000.0 // one big peak; rest should clip to peak-50dB at worst
	v := ResampleToRateK(a, l, wo, 8000)
	peak := v[0]
	for _, x := range v {
		if x > peak {
			peak = x
		}
	}
	for _, x := range v {
		assert.GreaterOrEqual(t, x, peak-50.0001)
	}
}

func TestRemoveMeanRoundTrip(t *testing.T) {
	var v [K]float64
	for i := range v {
		v[i] = float64(i)
	}
	mr, mean := RemoveMean(v)
	for i := range v {
		assert.InDelta(t, v[i], mr[i]+mean, 1e-9)
	}
}

func TestQuantizeMeanRoundTripWithinRange(t *testing.T) {
	idx := QuantizeMean(12.3)
	got := DequantizeMean(idx)
	assert.InDelta(t, 12.3, got, 5.0)
}

func TestTwoStageVQReducesResidualEnergy(t *testing.T) {
	var v [K]float64
	for i := range v {
		v[i] = float64(i) - 10
	}
	idx, recon := TwoStageVQ(v)
	got := DequantizeTwoStageVQ(idx)
	require.Equal(t, recon, got)

	var errBefore, errAfter float64
	for i := range v {
		errBefore += v[i] * v[i]
		d := v[i] - recon[i]
		errAfter += d * d
	}
	assert.Less(t, errAfter, errBefore)
}

func TestWoQuantizeZeroMeansUnvoiced(t *testing.T) {
	idx := QuantizeWo(1.0, false)
	assert.Equal(t, 0, idx)
	wo, voiced := DequantizeWo(0)
	assert.False(t, voiced)
	assert.InDelta(t, 2*math.Pi/100, wo, 1e-9)
}

func TestWoQuantizeVoicedRoundTripApprox(t *testing.T) {
	wo := 2 * math.Pi * 150 / 8000
	idx := QuantizeWo(wo, true)
	got, voiced := DequantizeWo(idx)
	assert.True(t, voiced)
	assert.InDelta(t, wo, got, 0.02)
}
