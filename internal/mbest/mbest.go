// Package mbest implements the generic multistage vector-quantiser beam
// search used by both the LSP predictive quantiser and the rate-K mel
// quantiser.
//
// The search keeps the B best candidate index paths by accumulated
// squared error across stages, mirroring libcodec2's mbest_create /
// mbest_search / mbest_destroy trio in mbest.c. There is no destructor
// here: a Searcher owns no resources beyond its own slices.
package mbest

import "sort"

// Candidate is one surviving beam-search path.
type Candidate struct {
	// Cost is the accumulated squared error for this path.
	Cost float64
	// Path is the sequence of chosen codebook entry indexes, one per
	// stage searched so far.
	Path []int
}

// Searcher runs a beam search of width B, kept sorted ascending by Cost.
type Searcher struct {
	width int
	list  []Candidate
}

// NewSearcher returns a Searcher with beam width b (b must be >= 1).
func NewSearcher(b int) *Searcher {
	if b < 1 {
		b = 1
	}
	return &Searcher{width: b}
}

// Reset clears the beam, seeding it with a single zero-cost, empty-path
// candidate so the first Stage call has something to extend.
func (s *Searcher) Reset() {
	s.list = []Candidate{{Cost: 0, Path: nil}}
}

// Best returns the lowest-cost surviving candidate. Reset or Stage must
// have been called at least once.
func (s *Searcher) Best() Candidate {
	return s.list[0]
}

// Survivors returns all currently surviving candidates, best first.
func (s *Searcher) Survivors() []Candidate {
	return s.list
}

// SquaredError computes the sum of squared differences between target
// and entry, both of length dim.
func SquaredError(target, entry []float64, dim int) float64 {
	var sum float64
	for i := 0; i < dim; i++ {
		d := target[i] - entry[i]
		sum += d * d
	}
	return sum
}

// Stage extends every surviving candidate by trying each of the entries
// codebook vectors (entries rows of dim floats laid out row-major) against
// target, and keeps the width best paths by accumulated cost. Between
// Stage calls, the caller is responsible for building the next target as
// original_target minus the sum of chosen codebook vectors along the
// path, e.g. with Residual.
func (s *Searcher) Stage(target []float64, codebook []float64, entries, dim int) {
	if len(s.list) == 0 {
		s.Reset()
	}
	next := make([]Candidate, 0, len(s.list)*entries)
	for _, cand := range s.list {
		for e := 0; e < entries; e++ {
			entry := codebook[e*dim : e*dim+dim]
			cost := cand.Cost + SquaredError(target, entry, dim)
			path := make([]int, len(cand.Path)+1)
			copy(path, cand.Path)
			path[len(cand.Path)] = e
			next = append(next, Candidate{Cost: cost, Path: path})
		}
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Cost < next[j].Cost })
	if len(next) > s.width {
		next = next[:s.width]
	}
	s.list = next
}

// Residual returns target minus the given codebook row (dim floats), the
// helper a caller uses to build the next stage's target.
func Residual(target []float64, codebook []float64, dim, index int) []float64 {
	entry := codebook[index*dim : index*dim+dim]
	out := make([]float64, dim)
	for i := 0; i < dim; i++ {
		out[i] = target[i] - entry[i]
	}
	return out
}

// Search runs a single-stage beam search over a codebook and returns the
// width best (cost, index) candidates sorted ascending by cost. It is a
// convenience wrapper around Searcher for a one-shot single-stage search;
// the rate-K two-stage VQ drives a Searcher directly instead.
func Search(target []float64, codebook []float64, dim, entries, width int) []Candidate {
	s := NewSearcher(width)
	s.Reset()
	s.Stage(target, codebook, entries, dim)
	return s.Survivors()
}
