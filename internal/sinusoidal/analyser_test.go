package sinusoidal

import (
	"math"
	"testing"

	"github.com/freedv-go/codec2/internal/c2const"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyseVoicedToneWoWithinBounds(t *testing.T) {
	c := c2const.New(8000)
	a := NewAnalyser(c)

	f0 := 120.0
	n := c.MPitch
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 8000 * math.Sin(2*math.Pi*f0*float64(i)/float64(c.Fs))
	}
	a.AddSamples(samples)

	m := a.Analyse()
	require.Greater(t, m.Wo, 0.0)
	assert.GreaterOrEqual(t, m.Wo, c.WoMin)
	assert.LessOrEqual(t, m.Wo, c.WoMax)
	assert.Greater(t, m.L, 0)
	assert.LessOrEqual(t, m.L, c2const.MaxAmp)
}

func TestAddSamplesShiftsBuffer(t *testing.T) {
	c := c2const.New(8000)
	a := NewAnalyser(c)
	first := make([]float64, c.NSamp)
	for i := range first {
		first[i] = float64(i + 1)
	}
	a.AddSamples(first)
	tail := a.buf[len(a.buf)-c.NSamp:]
	assert.Equal(t, first, tail)
}
