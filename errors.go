package codec2

import "errors"

// Sentinel errors. Per-frame conditions in the tx/rx hot path never
// return an error: they degrade audio or are surfaced through session
// status flags/counters instead. Only session construction can fail.
var (
	// ErrConfig covers unsupported modes, invalid sample rates, and
	// mutually exclusive configuration flags. Returned only from
	// constructors.
	ErrConfig = errors.New("codec2: invalid configuration")

	// ErrInputShort names the condition of a caller supplying fewer
	// samples than Nin() requires. No function in this package returns
	// it: Session.Rx passes the samples to the Modem as given, and the
	// LoopbackModem yields no frame for a buffer of the wrong length.
	ErrInputShort = errors.New("codec2: fewer samples supplied than nin() requires")

	// ErrFatal names construction-time failures such as out of memory or
	// a missing required codebook. No constructor in this package returns
	// it; their failures are reported as ErrConfig. Every tx/rx call on
	// an existing session is infallible.
	ErrFatal = errors.New("codec2: fatal construction failure")
)

// NotSynced, CrcMismatch, DecodeDegraded, and LspRootFind are not
// returned as errors: they are recoverable per-frame conditions surfaced
// as status flags (RxStatus, PacketErrors) or silent degradation (soft
// mute, benign equally-spaced LSPs).
