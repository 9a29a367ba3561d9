package freedv

// NinGovernor tracks a modem's fractional symbol timing error and turns it
// into the next nin() sample request: nominal N most calls, N-delta when
// timing has drifted late, N+delta when early.
// A Modem implementation that actually resamples (unlike LoopbackModem)
// embeds one of these and feeds it symbol-timing-error estimates each
// DemodRX call.
type NinGovernor struct {
	nominal int
	delta   int
	burst   bool

	timingError float64
}

// NewNinGovernor returns a governor for a modem whose nominal per-frame
// sample count is nominal, adjusting by delta samples when timing drifts
// past half a symbol.
func NewNinGovernor(nominal, delta int) *NinGovernor {
	return &NinGovernor{nominal: nominal, delta: delta}
}

// SetBurst clamps Nin to the nominal count: a raw-data burst has no
// steady-state pilot to track drift against.
func (g *NinGovernor) SetBurst(burst bool) { g.burst = burst }

// Nin returns the next sample count DemodRX should consume. When timing
// has drifted past half a symbol it also removes the compensated sample
// from the accumulated error, so the error keeps oscillating around zero
// instead of saturating against the threshold.
func (g *NinGovernor) Nin() int {
	if g.burst {
		return g.nominal
	}
	switch {
	case g.timingError > 0.5:
		g.timingError -= 1
		return g.nominal - g.delta
	case g.timingError < -0.5:
		g.timingError += 1
		return g.nominal + g.delta
	default:
		return g.nominal
	}
}

// UpdateTimingError accumulates a fractional-symbol timing estimate from
// the demodulator's own symbol tracking loop. It only accumulates; Nin
// removes a full sample's worth of error once it has compensated for it.
func (g *NinGovernor) UpdateTimingError(fracSymbols float64) {
	g.timingError += fracSymbols
}
