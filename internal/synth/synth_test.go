package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeProducesNSampOutput(t *testing.T) {
	s := NewSynthesiser(80)
	a := make([]float64, 5)
	phi := make([]float64, 5)
	a[1] = 1000
	out := s.Synthesize(0.1, 1, a, phi)
	require.Len(t, out, 80)
}

func TestEarProtectClampsLoudFrame(t *testing.T) {
	buf := make([]float64, 4)
	for i := range buf {
		buf[i] = 60000
	}
	earProtect(buf)
	for _, v := range buf {
		assert.LessOrEqual(t, math.Abs(v), 30000.0+1e-6)
	}
}

func TestFloatToInt16Clamps(t *testing.T) {
	assert.Equal(t, int16(32767), floatToInt16(1e9))
	assert.Equal(t, int16(-32768), floatToInt16(-1e9))
	assert.Equal(t, int16(5), floatToInt16(5.4))
}

func TestTriangularWindowZeroAtEdgesOneInMiddle(t *testing.T) {
	w := triangularWindow(80)
	assert.InDelta(t, 0, w[0], 1e-9)
	assert.InDelta(t, 1, w[80], 1e-9)
	assert.InDelta(t, 0, w[len(w)-1], 1.0/80+1e-9)
}
