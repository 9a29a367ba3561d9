// Package codec2core implements the codec2 profile state machine:
// per-mode encode/decode driving the sinusoidal analyser, the LSP or
// rate-K quantiser, the phase synthesiser and the sinusoidal synthesiser
// over a multi-sub-frame super-frame.
package codec2core

// Mode selects a codec2 bit-rate profile. Only the modes that exercise
// every quantiser family are implemented: the remaining historical modes
// (2020/2020B, 2400A/B, 800XA, 700E, 450PWB) follow the identical
// ModeParams shape and are a straightforward table addition, not a new
// algorithm, so they are left for a future table entry.
type Mode int

const (
	Mode3200 Mode = iota
	Mode2400
	Mode1600
	Mode1400
	Mode1300
	Mode1200
	Mode700C
	Mode450
)

// QuantiserFamily selects which of C2 (LSP/LPC) or C3 (rate-K mel) a mode
// uses for amplitude coding.
type QuantiserFamily int

const (
	FamilyLSP QuantiserFamily = iota
	FamilyRateK
)

// VoicingBitUse distinguishes a voicing bit slot that is actually spent on
// voicing from one "stolen" for spare-bit signalling.
type VoicingBitUse int

const (
	VoicingBit VoicingBitUse = iota
	SpareBit
)

// ModeParams describes one mode's frame structure.
type ModeParams struct {
	Mode Mode

	SampleRate        int // 8000 or 16000
	SpeechSamples     int // PCM samples per modem frame
	BitsPerFrame      int // total bits packed per modem frame
	SubFrames         int // number of 10ms analysis sub-frames per modem frame
	Family            QuantiserFamily
	Natural           bool // false selects Gray coding through the bit packer
	VoicingBitPlan    []VoicingBitUse
	SoftMuteThreshold float64 // DecodeDegraded BER threshold; 0 disables

	// LSPScheme selects which C2 quantisation variant a LSP-family mode
	// uses.
	LSPScheme LSPScheme

	// EqualiserEnabled turns on the encoder-side newamp1 equaliser, only
	// meaningful for FamilyRateK.
	EqualiserEnabled bool

	// RateKTwoStage selects the rate-K VQ's second stage; when false only
	// the first VQ1Bits stage is sent, for modes too tight on bits to
	// afford the second.
	RateKTwoStage bool
}

// LSPScheme enumerates the LSP quantisation variants.
type LSPScheme int

const (
	LSPScalar LSPScheme = iota
	LSPDifferential
	LSPPredictiveJointVQ
)

// Table holds the supported modes' parameters. BitsPerFrame is the exact
// sum of the fields the encoder in this package packs for that mode (see
// encoder.go); this implementation does not target upstream libcodec2's
// historical bit-exact budgets.
var Table = map[Mode]ModeParams{
	Mode3200: {
		Mode: Mode3200, SampleRate: 8000, SpeechSamples: 160, BitsPerFrame: 50,
		SubFrames: 2, Family: FamilyLSP, Natural: true, LSPScheme: LSPScalar,
		VoicingBitPlan: []VoicingBitUse{VoicingBit, VoicingBit},
	},
	Mode2400: {
		Mode: Mode2400, SampleRate: 8000, SpeechSamples: 160, BitsPerFrame: 37,
		SubFrames: 2, Family: FamilyLSP, Natural: true, LSPScheme: LSPPredictiveJointVQ,
		VoicingBitPlan: []VoicingBitUse{VoicingBit, VoicingBit},
	},
	Mode1600: {
		Mode: Mode1600, SampleRate: 8000, SpeechSamples: 320, BitsPerFrame: 56,
		SubFrames: 4, Family: FamilyLSP, Natural: true, LSPScheme: LSPDifferential,
		VoicingBitPlan: []VoicingBitUse{VoicingBit, VoicingBit, VoicingBit, VoicingBit},
	},
	Mode1400: {
		Mode: Mode1400, SampleRate: 8000, SpeechSamples: 320, BitsPerFrame: 39,
		SubFrames: 4, Family: FamilyLSP, Natural: true, LSPScheme: LSPPredictiveJointVQ,
		VoicingBitPlan: []VoicingBitUse{VoicingBit, VoicingBit, VoicingBit, VoicingBit},
	},
	Mode1300: {
		Mode: Mode1300, SampleRate: 8000, SpeechSamples: 320, BitsPerFrame: 39,
		SubFrames: 4, Family: FamilyLSP, Natural: false, LSPScheme: LSPPredictiveJointVQ,
		SoftMuteThreshold: 0.15,
		VoicingBitPlan:    []VoicingBitUse{VoicingBit, SpareBit, VoicingBit, VoicingBit},
	},
	Mode1200: {
		Mode: Mode1200, SampleRate: 8000, SpeechSamples: 320, BitsPerFrame: 39,
		SubFrames: 4, Family: FamilyLSP, Natural: false, LSPScheme: LSPPredictiveJointVQ,
		SoftMuteThreshold: 0.15,
		VoicingBitPlan:    []VoicingBitUse{VoicingBit, SpareBit, VoicingBit, VoicingBit},
	},
	Mode700C: {
		Mode: Mode700C, SampleRate: 8000, SpeechSamples: 320, BitsPerFrame: 32,
		SubFrames: 4, Family: FamilyRateK, Natural: true, RateKTwoStage: true,
		VoicingBitPlan: []VoicingBitUse{VoicingBit, VoicingBit, VoicingBit, VoicingBit},
	},
	Mode450: {
		Mode: Mode450, SampleRate: 16000, SpeechSamples: 640, BitsPerFrame: 23,
		SubFrames: 4, Family: FamilyRateK, Natural: true, EqualiserEnabled: true,
		VoicingBitPlan: []VoicingBitUse{VoicingBit, VoicingBit, VoicingBit, VoicingBit},
	},
}
