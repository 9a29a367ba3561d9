// Package codec2 implements the codec2 harmonic sinusoidal speech codec
// and the FreeDV frame-level API that carries it (and raw data) over a
// narrow-band digital voice modem.
//
// The package covers the hardest engineering of the original C library:
// the sinusoidal-model speech pipeline (analysis, pitch, voicing,
// amplitude quantisation by either LSP-LPC or rate-K mel-VQ, phase
// synthesis, synthesis) and the FreeDV frame lifecycle (bit packing into
// fixed modem frames, the demodulator's sync state machine, the
// variable-input-length nin contract, and testframe/BER bookkeeping).
//
// The wire modem (OFDM/DPSK/FSK), its FFT kernel, and the channel itself
// are treated as black boxes: see the Modem interface in freedv.go.
package codec2
