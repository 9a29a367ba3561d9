package lspquant

import (
	"errors"
	"math"
)

// ErrNotEnoughRoots reports that fewer than Order real roots were found
// in (0, pi).
var ErrNotEnoughRoots = errors.New("lspquant: not enough LSP roots found")

// gridStep is the coarse search step (radians) for the cosine-polynomial
// root search.
const gridStep = 0.01

// ToLSP converts order-Order LPC coefficients a[0..Order] (a[0]=1) to
// strictly increasing LSP frequencies in (0, pi), by forming the
// symmetric/antisymmetric sum and difference polynomials and root-finding
// them on a cosine grid with binary subdivision of bracketed intervals. On
// failure to find Order real roots it returns ErrNotEnoughRoots and the
// benign equally-spaced LSPs omega_i = pi*(i+1)/(p+1).
func ToLSP(a []float64) ([]float64, error) {
	p := len(a) - 1
	half := p / 2

	f1 := make([]float64, half+1)
	f2 := make([]float64, half+1)
	f1[0], f2[0] = 1, 1
	for i := 1; i <= half; i++ {
		f1[i] = a[i] + a[p+1-i] - f1[i-1]
		f2[i] = a[i] - a[p+1-i] + f2[i-1]
	}

	chebyEval := func(coeffs []float64, x float64) float64 {
		// Evaluate sum coeffs[i] * cos((half-i)*theta) via the Chebyshev
		// recurrence T_n(cos theta) = cos(n theta), using x = cos(theta).
		var sum float64
		for i, c := range coeffs {
			n := half - i
			sum += c * math.Cos(float64(n)*math.Acos(clamp(x, -1, 1)))
		}
		return sum
	}

	roots1 := findRoots(f1, half, chebyEval)
	roots2 := findRoots(f2, half, chebyEval)

	lsp := make([]float64, 0, p)
	lsp = append(lsp, roots1...)
	lsp = append(lsp, roots2...)
	sortFloat64s(lsp)

	if len(lsp) < p {
		return equallySpaced(p), ErrNotEnoughRoots
	}
	return lsp[:p], nil
}

func findRoots(coeffs []float64, half int, eval func([]float64, float64) float64) []float64 {
	var roots []float64
	prevTheta := 0.0
	prevVal := eval(coeffs, math.Cos(prevTheta))
	for theta := gridStep; theta <= math.Pi+gridStep; theta += gridStep {
		if theta > math.Pi {
			theta = math.Pi
		}
		val := eval(coeffs, math.Cos(theta))
		if prevVal == 0 {
			roots = append(roots, prevTheta)
		} else if (prevVal > 0) != (val > 0) {
			root := bisect(coeffs, prevTheta, theta, eval)
			roots = append(roots, root)
		}
		prevTheta, prevVal = theta, val
		if len(roots) >= half {
			break
		}
		if theta >= math.Pi {
			break
		}
	}
	return roots
}

func bisect(coeffs []float64, lo, hi float64, eval func([]float64, float64) float64) float64 {
	fLo := eval(coeffs, math.Cos(lo))
	for i := 0; i < 24; i++ {
		mid := (lo + hi) / 2
		fMid := eval(coeffs, math.Cos(mid))
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// FallbackLSP returns the benign equally-spaced LSP set omega_i = pi*(i+1)/(p+1),
// the degradation target ToLSP falls back to. The decoder also uses it as
// the collapsed-spectrum half of a DecodeDegraded soft mute.
func FallbackLSP(p int) []float64 { return equallySpaced(p) }

func equallySpaced(p int) []float64 {
	out := make([]float64, p)
	for i := range out {
		out[i] = math.Pi * float64(i+1) / float64(p+1)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func sortFloat64s(s []float64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// minGapRadians enforces the order-repair gaps: 50Hz among the first
// four LSPs, 100Hz thereafter, expressed in radians given the session
// sample rate.
func minGapRadians(fs int, index int) float64 {
	hz := 100.0
	if index < 4 {
		hz = 50.0
	}
	return 2 * math.Pi * hz / float64(fs)
}

// RepairOrder enforces strict monotonicity and the minimum-gap invariant,
// swapping and offsetting adjacent pairs that violate it and restarting
// the check from index 1 until stable.
func RepairOrder(lsp []float64, fs int) {
	for {
		stable := true
		for i := 1; i < len(lsp); i++ {
			gap := minGapRadians(fs, i)
			if lsp[i] < lsp[i-1]+gap {
				mid := (lsp[i-1] + lsp[i]) / 2
				lsp[i-1] = mid - gap/2 - 0.05
				lsp[i] = mid + gap/2 + 0.05
				stable = false
			}
		}
		if lsp[0] <= 0 {
			lsp[0] = minGapRadians(fs, 0) / 2
			stable = false
		}
		if lsp[len(lsp)-1] >= math.Pi {
			lsp[len(lsp)-1] = math.Pi - minGapRadians(fs, len(lsp)-1)/2
			stable = false
		}
		if stable {
			return
		}
	}
}

// ToLPC converts LSPs back to order-p LPC coefficients a[0..p] (a[0]=1) by
// reconstructing P(z) and Q(z) from their roots and convolving. It is the
// inverse of ToLSP, used by the decoder and by bandwidth-expansion-for-
// synthesis.
func ToLPC(lsp []float64) []float64 {
	p := len(lsp)
	half := p / 2

	// P(z) has roots at cos(lsp[0]), cos(lsp[2]), ... plus z=-1.
	// Q(z) has roots at cos(lsp[1]), cos(lsp[3]), ... plus z=+1.
	pPoly := quadraticProduct(lsp, 0)
	qPoly := quadraticProduct(lsp, 1)
	pPoly = convolve(pPoly, []float64{1, 1})   // (1 + z^-1) factor
	qPoly = convolve(qPoly, []float64{1, -1}) // (1 - z^-1) factor

	a := make([]float64, p+1)
	for i := 0; i <= p; i++ {
		var pv, qv float64
		if i < len(pPoly) {
			pv = pPoly[i]
		}
		if i < len(qPoly) {
			qv = qPoly[i]
		}
		a[i] = (pv + qv) / 2
	}
	a[0] = 1
	_ = half
	return a
}

// quadraticProduct builds the polynomial product of (1 - 2cos(lsp[i])z^-1
// + z^-2) over every other LSP starting at offset.
func quadraticProduct(lsp []float64, offset int) []float64 {
	poly := []float64{1}
	for i := offset; i < len(lsp); i += 2 {
		poly = convolve(poly, []float64{1, -2 * math.Cos(lsp[i]), 1})
	}
	return poly
}

func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}
