package mbest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFindsExactMatch(t *testing.T) {
	// A 2-dim, 4-entry codebook; target exactly equals entry 2.
	codebook := []float64{
		0, 0,
		1, 1,
		3, 4,
		10, 10,
	}
	target := []float64{3, 4}

	survivors := Search(target, codebook, 2, 4, 2)
	require.Len(t, survivors, 2)
	assert.Equal(t, []int{2}, survivors[0].Path)
	assert.InDelta(t, 0, survivors[0].Cost, 1e-9)
}

func TestStageSortsAscendingAndTruncates(t *testing.T) {
	codebook := []float64{0, 5, 2}
	s := NewSearcher(2)
	s.Reset()
	s.Stage([]float64{0}, codebook, 3, 1)

	survivors := s.Survivors()
	require.Len(t, survivors, 2)
	assert.True(t, survivors[0].Cost <= survivors[1].Cost)
	assert.Equal(t, 0, survivors[0].Path[0]) // exact match to entry 0
}

func TestTwoStageResidualSearch(t *testing.T) {
	stage1 := []float64{0, 10}
	stage2 := []float64{0, 1, -1}
	target := []float64{9}

	s := NewSearcher(3)
	s.Reset()
	s.Stage(target, stage1, 2, 1)
	best := s.Best()
	residual := Residual(target, stage1, 1, best.Path[0])

	s2 := NewSearcher(1)
	s2.Reset()
	s2.Stage(residual, stage2, 3, 1)
	got := s2.Best()

	// stage1 picks index 1 (value 10), residual = -1, stage2 picks index 2 (value -1).
	assert.Equal(t, []int{1}, best.Path)
	assert.Equal(t, []int{2}, got.Path)
	assert.InDelta(t, 0, got.Cost, 1e-9)
}
