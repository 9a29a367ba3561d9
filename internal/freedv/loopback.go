package freedv

// LoopbackModem is a zero-channel stand-in for a real wire modem: it hands
// TX bits straight back as RX bits with immediate, permanent sync. It
// exists for tests and as the modem of the freedv_tx/freedv_rx demo
// binaries, exercising
// every layer above the Modem boundary without a physical-layer dependency.
type LoopbackModem struct {
	bitsPerFrame int
	nin          *NinGovernor
	syncCmd      SyncCmd
	pending      []byte
}

// NewLoopbackModem returns a LoopbackModem carrying bitsPerFrame bits per
// modem frame, one int16 "sample" per bit.
func NewLoopbackModem(bitsPerFrame int) *LoopbackModem {
	return &LoopbackModem{
		bitsPerFrame: bitsPerFrame,
		nin:          NewNinGovernor(bitsPerFrame, 0),
	}
}

func (m *LoopbackModem) BitsPerFrame() int { return m.bitsPerFrame }

func (m *LoopbackModem) Nin() int { return m.nin.Nin() }

// ModTX renders packed bits as one int16 sample per bit, high for 1 and low
// for 0. Real modulation is out of scope; this only needs to be invertible
// by DemodRX.
func (m *LoopbackModem) ModTX(bits []byte) []int16 {
	out := make([]int16, m.bitsPerFrame)
	for i := range out {
		if bitAt(bits, i) {
			out[i] = 1
		}
	}
	m.pending = append(m.pending[:0], bits...)
	return out
}

// DemodRX expects exactly Nin() samples and thresholds them back into
// packed bits. Sync is immediate and never lost: there is no channel to
// lose it to.
func (m *LoopbackModem) DemodRX(samples []int16) ([]byte, RxStatus, bool) {
	if m.syncCmd == SyncCmdUnsync {
		return nil, 0, false
	}
	if len(samples) != m.bitsPerFrame {
		return nil, StatusSync, false
	}
	out := make([]byte, (m.bitsPerFrame+7)/8)
	for i, s := range samples {
		if s != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out, StatusSync | StatusBits, true
}

func (m *LoopbackModem) SyncState() SyncState {
	if m.syncCmd == SyncCmdUnsync {
		return Unsync
	}
	return Synced
}

func (m *LoopbackModem) SetSyncCmd(cmd SyncCmd) { m.syncCmd = cmd }

// SNRDB always reports a high, noiseless-channel SNR: there is no channel
// model behind a LoopbackModem for a squelch to react to.
func (m *LoopbackModem) SNRDB() float64 { return 99 }

func bitAt(b []byte, i int) bool {
	byteIdx, bitIdx := i/8, 7-i%8
	if byteIdx >= len(b) {
		return false
	}
	return b[byteIdx]&(1<<uint(bitIdx)) != 0
}
