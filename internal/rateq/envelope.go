package rateq

// EnvelopeDB returns a function sampling the K-bin mel-spaced dB vector v
// onto an arbitrary linear-frequency DFT grid of size nfft at sample rate
// fs, by linear interpolation between mel-grid anchors. It is the decoder's
// inverse of ResampleToRateK, handing the phase synthesiser the same
// envelope shape the LPC/LSP family builds from its own spectrum (see
// lspquant.Envelope).
func EnvelopeDB(v [K]float64, fs, nfft int) func(bin int) float64 {
	grid := MelGrid()
	return func(bin int) float64 {
		hz := float64(bin) * float64(fs) / float64(nfft)
		if hz <= grid[0] {
			return v[0]
		}
		if hz >= grid[K-1] {
			return v[K-1]
		}
		for i := 1; i < K; i++ {
			if hz <= grid[i] {
				t := (hz - grid[i-1]) / (grid[i] - grid[i-1])
				return v[i-1] + t*(v[i]-v[i-1])
			}
		}
		return v[K-1]
	}
}
