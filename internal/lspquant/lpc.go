// Package lspquant implements the LPC/LSP quantiser: order-10 LPC
// analysis, LSP conversion, and the scalar/differential/predictive-VQ
// quantisation variants, plus the joint Wo-energy VQ.
package lspquant

import "math"

// Order is the LPC analysis order.
const Order = 10

// bwExpansionGamma is the 15Hz expansion factor applied to raw LPC
// coefficients before LSP conversion.
const bwExpansionGamma = 0.994

// Autocorrelation computes the order+1 autocorrelation coefficients of a
// windowed speech buffer.
func Autocorrelation(windowed []float64, order int) []float64 {
	r := make([]float64, order+1)
	n := len(windowed)
	for lag := 0; lag <= order; lag++ {
		var sum float64
		for i := 0; i < n-lag; i++ {
			sum += windowed[i] * windowed[i+lag]
		}
		r[lag] = sum
	}
	// A small white-noise correction avoids numerical blow-up on
	// near-silent frames, matching libcodec2's lag-window practice.
	if r[0] == 0 {
		r[0] = 1e-9
	}
	r[0] *= 1.0001
	return r
}

// LevinsonDurbin runs the Levinson-Durbin recursion on autocorrelation
// coefficients r (length order+1) and returns the order+1 AR coefficients
// a[0..order] with a[0]=1, and the residual energy E = sum(a_i * R_i).
func LevinsonDurbin(r []float64, order int) (a []float64, energy float64) {
	a = make([]float64, order+1)
	a[0] = 1
	e := r[0]
	tmp := make([]float64, order+1)

	for i := 1; i <= order; i++ {
		var acc float64
		for j := 1; j < i; j++ {
			acc += a[j] * r[i-j]
		}
		if e == 0 {
			e = 1e-9
		}
		k := -(r[i] + acc) / e

		copy(tmp, a)
		a[i] = k
		for j := 1; j < i; j++ {
			a[j] = tmp[j] + k*tmp[i-j]
		}
		e *= 1 - k*k
		if e < 1e-9 {
			e = 1e-9
		}
	}

	energy = 0
	for i := 0; i <= order; i++ {
		energy += a[i] * r[i]
	}
	if energy < 1e-9 {
		energy = 1e-9
	}
	return a, energy
}

// BandwidthExpand applies the 15Hz expansion a_i <- a_i * gamma^i required
// before LSP conversion.
func BandwidthExpand(a []float64) []float64 {
	out := make([]float64, len(a))
	g := 1.0
	for i := range a {
		out[i] = a[i] * g
		g *= bwExpansionGamma
	}
	return out
}

// EnergyDB converts a Levinson-Durbin residual energy into decibels, the
// scale the 5-bit energy quantiser and the joint Wo-E VQ both work in.
func EnergyDB(e float64) float64 {
	if e < 1e-9 {
		e = 1e-9
	}
	return 10 * math.Log10(e)
}
