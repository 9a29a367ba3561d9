package freedv

import "math/bits"

// testframeLockWindow is the number of most recent test frames the
// "locked" decision weighs, a sliding-window bit-error-rate check.
const testframeLockWindow = 8

// testframeLockThreshold is the fraction of mismatched bits within the
// window below which a testframe sequence is declared locked.
const testframeLockThreshold = 0.10

// Stats is the BER/PER bookkeeping for a testframe or raw-data burst
// run: running totals reset whenever sync is lost.
type Stats struct {
	Tbits       uint64
	Terrs       uint64
	TbitsCoded  uint64
	TerrsCoded  uint64
	Tpackets    uint64
	TpacketErrs uint64
}

// Reset zeroes all counters, e.g. on sync loss.
func (s *Stats) Reset() { *s = Stats{} }

// TestframeGenerator produces and checks a deterministic test pattern: a
// seeded linear-congruential byte stream, identical on TX and RX so a
// receiver can self-check bit errors without a side channel.
type TestframeGenerator struct {
	seed   uint32
	stats  Stats
	window []int // recent per-frame error counts, most recent last
	bits   int   // bits per frame, for window error-rate normalisation
	locked bool
}

// NewTestframeGenerator returns a generator seeded identically to its peer;
// both ends must use the same seed for CheckFrame to be meaningful.
func NewTestframeGenerator(seed uint32) *TestframeGenerator {
	return &TestframeGenerator{seed: seed}
}

// Pattern returns n deterministic bytes for transmission as a test frame.
func (g *TestframeGenerator) Pattern(n int) []byte {
	buf := make([]byte, n)
	state := g.seed
	for i := range buf {
		state = state*1664525 + 1013904223
		buf[i] = byte(state >> 24)
	}
	return buf
}

// CheckFrame compares received against the expected pattern of the same
// length, folding bit errors into the running totals and the lock-detection
// window.
func (g *TestframeGenerator) CheckFrame(received []byte) {
	ref := g.Pattern(len(received))
	frameBits, frameErrs := 0, 0
	for i := range received {
		diff := received[i] ^ ref[i]
		frameBits += 8
		frameErrs += bits.OnesCount8(diff)
	}
	g.stats.Tbits += uint64(frameBits)
	g.stats.Terrs += uint64(frameErrs)

	g.window = append(g.window, frameErrs)
	if len(g.window) > testframeLockWindow {
		g.window = g.window[1:]
	}
	g.bits = frameBits
	g.locked = g.windowErrorRate() < testframeLockThreshold
}

func (g *TestframeGenerator) windowErrorRate() float64 {
	if len(g.window) == 0 || g.bits == 0 {
		return 1
	}
	total := 0
	for _, e := range g.window {
		total += e
	}
	return float64(total) / float64(len(g.window)*g.bits)
}

// Locked reports whether recent test frames have matched within
// testframeLockThreshold.
func (g *TestframeGenerator) Locked() bool { return g.locked }

// Stats returns the accumulated bit-error counters.
func (g *TestframeGenerator) Stats() Stats { return g.stats }

// ResetStats zeroes counters and the lock window, e.g. on sync loss.
func (g *TestframeGenerator) ResetStats() {
	g.stats.Reset()
	g.window = nil
	g.locked = false
}
