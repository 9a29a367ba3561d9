package lspquant

import (
	"math"

	"github.com/freedv-go/codec2/internal/c2const"
)

// WoBits is the bit width of the direct log-domain Wo quantiser used by the
// scalar and differential LSP schemes (the predictive scheme instead codes
// Wo jointly with energy, see jointvq.go).
const WoBits = 7

// QuantizeWoDirect log-encodes wo over the session's [WoMin, WoMax] range
// into a WoBits-wide index.
func QuantizeWoDirect(wo float64, c c2const.C2Const) int {
	n := 1 << WoBits
	lo, hi := math.Log(c.WoMin), math.Log(c.WoMax)
	idx := int(math.Round((math.Log(wo) - lo) / (hi - lo) * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// DequantizeWoDirect inverts QuantizeWoDirect.
func DequantizeWoDirect(idx int, c c2const.C2Const) float64 {
	n := 1 << WoBits
	lo, hi := math.Log(c.WoMin), math.Log(c.WoMax)
	frac := float64(idx) / float64(n-1)
	return math.Exp(lo + frac*(hi-lo))
}
