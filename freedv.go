package codec2

import (
	"fmt"

	"github.com/freedv-go/codec2/internal/freedv"
	"github.com/freedv-go/codec2/internal/freedvlog"
)

// Modem is the external wire modem contract a Session drives. The
// OFDM/DPSK/FSK physical layer, its FFT kernel, and the channel itself are
// black boxes from this package's point of view; only LoopbackModem is
// shipped here, for tests and demo binaries.
type Modem = freedv.Modem

// LoopbackModem is a zero-channel Modem: TX bits return as RX bits with
// immediate, permanent sync. Useful for tests and a -loopback demo mode.
type LoopbackModem = freedv.LoopbackModem

// NewLoopbackModem returns a LoopbackModem carrying bitsPerFrame bits per
// modem frame.
func NewLoopbackModem(bitsPerFrame int) *LoopbackModem {
	return freedv.NewLoopbackModem(bitsPerFrame)
}

// RxStatus is the demod status bitmask a Modem reports on each Rx call.
type RxStatus = freedv.RxStatus

const (
	StatusTrialSync = freedv.StatusTrialSync
	StatusSync      = freedv.StatusSync
	StatusBits      = freedv.StatusBits
	StatusBitErrors = freedv.StatusBitErrors
)

// SyncState is the modem's sync acquisition state.
type SyncState = freedv.SyncState

const (
	Unsync = freedv.Unsync
	Trial  = freedv.Trial
	Synced = freedv.Synced
)

// TextSource supplies outgoing ad hoc text one character at a time.
type TextSource = freedv.TextSource

// TextSink receives decoded ad hoc text characters.
type TextSink = freedv.TextSink

// Stats is the BER/PER bookkeeping for a testframe or raw-data burst run,
// reset whenever sync is lost.
type Stats = freedv.Stats

const dataSourceID = 0

// Session is the FreeDV frame-level API: it wraps a codec2 Encoder/Decoder
// pair, a Modem, and the frame adapter and sync/nin governor that carry
// codec2 frames, raw data bursts, and the text side channels over it.
type Session struct {
	cfg   Config
	enc   *Encoder
	dec   *Decoder
	modem Modem
	frame *freedv.FrameAdapter
	log   freedvlog.Logger

	text       *freedv.TextChannel
	reliableTX freedv.ReliableTextTX
	reliableRX freedv.ReliableTextRX
	reliableCB func(string)

	syncState  SyncState
	dataStats  freedv.Stats
	txSeq      byte
}

// Open constructs a Session for cfg's mode, driving modem. It returns
// ErrConfig if the mode is unknown or the modem's frame is too small to
// carry one codec2 frame.
func Open(cfg Config, modem Modem) (*Session, error) {
	enc, err := NewEncoder(cfg.Mode)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(cfg.Mode)
	if err != nil {
		return nil, err
	}
	enc.SetEqualiser(cfg.Equaliser)

	codecBits := enc.BitsPerFrame()
	modemBits := modem.BitsPerFrame()
	if modemBits < codecBits {
		return nil, fmt.Errorf("%w: modem frame (%d bits) smaller than codec2 frame (%d bits)", ErrConfig, modemBits, codecBits)
	}

	text := freedv.NewTextChannel(nil, nil)
	fa := freedv.NewFrameAdapter(codecBits, modemBits)
	fa.SetSpareSource(text)

	s := &Session{
		cfg:   cfg,
		enc:   enc,
		dec:   dec,
		modem: modem,
		frame: fa,
		log:   cfg.Logger(),
		text:  text,
	}
	if cfg.Testframes {
		fa.EnableTestframes(1)
	}
	modem.SetSyncCmd(freedv.SyncCmd(cfg.SyncCmd))
	s.syncState = modem.SyncState()
	return s, nil
}

// SpeechSamples is the exact PCM sample count Tx requires per call.
func (s *Session) SpeechSamples() int { return s.enc.SpeechSamples() }

// Nin is the exact sample count the next Rx call should be given.
func (s *Session) Nin() int { return s.modem.Nin() }

// SetTextSource attaches the ad hoc text side channel's outgoing source.
func (s *Session) SetTextSource(src TextSource) { s.text.SetSource(src) }

// SetTextSink attaches the ad hoc text side channel's incoming sink.
func (s *Session) SetTextSink(sink TextSink) { s.text.SetSink(sink) }

// SetReliableString arms the reliable-text side channel to repeatedly
// transmit s, spreading its FEC-by-repetition encoding across many frames
// . It takes over the same spare-bit budget as the ad
// hoc text channel; the two are mutually exclusive per session.
func (s *Session) SetReliableString(str string) {
	s.reliableTX.SetString(str)
	s.frame.SetSpareSource(&s.reliableTX)
}

// OnReliableText registers cb to be invoked once per successfully decoded
// reliable-text cycle.
func (s *Session) OnReliableText(cb func(string)) {
	s.reliableCB = cb
	s.frame.SetSpareSink(s.putReliableBit)
}

func (s *Session) putReliableBit(bit bool) {
	if str, ok := s.reliableRX.PutBit(bit); ok && s.reliableCB != nil {
		s.reliableCB(str)
	}
}

// Tx encodes one super-frame of PCM speech and returns the modem samples to
// transmit.
func (s *Session) Tx(pcm []int16) []int16 {
	codecFrame := s.enc.Encode(pcm)
	payload := s.frame.BuildVoiceFrame(codecFrame)
	samples := s.modem.ModTX(payload)
	return applyTXGain(samples, s.cfg.TXAmp, s.cfg.Clip)
}

// Rx demodulates Nin() samples and returns reconstructed PCM speech. A
// NotSynced condition is not an error: pcm is nil and the returned status
// omits StatusSync.
func (s *Session) Rx(samples []int16) (pcm []int16, status RxStatus) {
	s.pollSync()

	payload, st, ok := s.modem.DemodRX(samples)
	if !ok {
		return nil, st
	}

	codecFrame := s.frame.ParseVoiceFrame(payload)
	if s.cfg.Testframes {
		return nil, st
	}
	degraded := st.Has(StatusBitErrors)
	pcm = s.dec.Decode(codecFrame, degraded)
	if s.cfg.SquelchEnabled && s.modem.SNRDB() < s.cfg.SquelchThreshdB {
		for i := range pcm {
			pcm[i] = 0
		}
	}
	return pcm, st
}

func (s *Session) pollSync() {
	cur := s.modem.SyncState()
	if s.syncState == Synced && cur != Synced {
		s.frame.ResetTestframeStats()
		s.dataStats.Reset()
		s.reliableRX.Reset()
		s.log.Info("sync lost")
	}
	if s.syncState != Synced && cur == Synced {
		s.log.Info("sync acquired")
	}
	s.syncState = cur
}

// SyncState reports the modem's current sync acquisition state.
func (s *Session) SyncState() SyncState { return s.syncState }

// TestframeLocked reports whether the testframe side channel has declared
// lock, meaningless unless cfg.Testframes was set.
func (s *Session) TestframeLocked() bool { return s.frame.TestframeLocked() }

// TestframeStats returns the running testframe bit-error counters.
func (s *Session) TestframeStats() Stats { return s.frame.TestframeStats() }

// TxData builds and transmits one raw-data burst frame carrying payload.
// The session's own sequence counter is used and advanced. payload is
// padded with zeros up to the modem frame's capacity before the CRC is
// appended, so the CRC always lands in the last two bytes of the modem
// frame rather than being pushed out by later padding.
func (s *Session) TxData(payload []byte) []int16 {
	modemBytes := (s.modem.BitsPerFrame() + 7) / 8
	capacity := modemBytes - 4
	if capacity < 0 {
		capacity = 0
	}
	framed := freedv.BuildDataFrame(dataSourceID, s.txSeq, padBytes(payload, capacity))
	s.txSeq++
	bits := padBits(framed, s.modem.BitsPerFrame())
	samples := s.modem.ModTX(bits)
	return applyTXGain(samples, s.cfg.TXAmp, s.cfg.Clip)
}

// RxData demodulates one raw-data burst frame. A CrcMismatch is not an
// error: payload is still returned and dataStats.TpacketErrs is
// incremented.
func (s *Session) RxData(samples []int16) (source, seq byte, payload []byte, status RxStatus, ok bool) {
	s.pollSync()
	raw, st, demodOK := s.modem.DemodRX(samples)
	if !demodOK {
		return 0, 0, nil, st, false
	}
	source, seq, payload, crcOK, parsedOK := freedv.ParseDataFrame(raw)
	if !parsedOK {
		return 0, 0, nil, st, false
	}
	s.dataStats.Tpackets++
	if !crcOK {
		s.dataStats.TpacketErrs++
	}
	return source, seq, payload, st, true
}

// DataStats returns the running raw-data packet counters.
func (s *Session) DataStats() Stats { return s.dataStats }

func applyTXGain(samples []int16, amp float64, clip bool) []int16 {
	if amp == 1 && !clip {
		return samples
	}
	out := make([]int16, len(samples))
	for i, v := range samples {
		f := float64(v) * amp
		max := 32767.0
		min := -32768.0
		if clip {
			max, min = 32000, -32000
		}
		if f > max {
			f = max
		}
		if f < min {
			f = min
		}
		out[i] = int16(f)
	}
	return out
}

// padBytes pads or truncates b to exactly n bytes.
func padBytes(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// padBits pads or truncates b to exactly the number of bytes needed to
// hold bitsPerFrame bits.
func padBits(b []byte, bitsPerFrame int) []byte {
	return padBytes(b, (bitsPerFrame+7)/8)
}
