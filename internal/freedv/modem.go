// Package freedv implements the FreeDV frame adapter and the demod
// sync/nin governor: packing codec payloads for the wire modem, raw-data
// CRC framing, the text and reliable-text side channels, testframe BER/PER
// bookkeeping, and the nin()-driven sample-clock-drift contract. The wire
// modem itself is an out-of-scope external component, represented here
// only by the Modem interface.
package freedv

// RxStatus is the demod status bitmask a Modem reports on each DemodRX
// call.
type RxStatus uint8

const (
	StatusTrialSync RxStatus = 1 << iota
	StatusSync
	StatusBits
	StatusBitErrors
)

// Has reports whether flag is set in s.
func (s RxStatus) Has(flag RxStatus) bool { return s&flag != 0 }

// SyncState is the modem's sync acquisition state.
type SyncState int

const (
	Unsync SyncState = iota
	Trial
	Synced
)

// SyncCmd is the manual sync override a caller can force on a Modem.
type SyncCmd int

const (
	SyncCmdAuto SyncCmd = iota
	SyncCmdUnsync
	SyncCmdManual
)

// Modem is the external wire modem contract. It is intentionally minimal:
// the OFDM/FSK/PSK physical layer is out of scope here and is represented
// only by the shape the frame adapter and the sync/nin governor need to
// drive it.
type Modem interface {
	BitsPerFrame() int
	Nin() int
	ModTX(bits []byte) []int16
	DemodRX(samples []int16) (bits []byte, status RxStatus, ok bool)
	SyncState() SyncState
	SetSyncCmd(SyncCmd)

	// SNRDB estimates the current demodulated SNR in dB, feeding a
	// session's output squelch.
	SNRDB() float64
}
