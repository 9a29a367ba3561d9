package freedv

import "github.com/freedv-go/codec2/internal/bitpack"

// FrameAdapter turns one codec2 frame (or, in testframe mode, a
// deterministic pattern of the same size) into one modem-sized payload,
// stealing any bits left over after the codec payload for the text side
// channel, and does the matching work in reverse on receive.
type FrameAdapter struct {
	codecBits int
	modemBits int

	testframes bool
	gen        *TestframeGenerator

	spareSrc  BitSource
	spareSink func(bool)
}

// BitSource supplies one outgoing spare bit at a time; TextChannel and
// ReliableTextTX both satisfy it.
type BitSource interface {
	NextBit() (bit bool, ok bool)
}

// NewFrameAdapter returns an adapter carrying codecBits of codec2 payload
// inside a modemBits-wide modem frame. modemBits must be >= codecBits; any
// surplus bits carry whatever spare-bit source/sink is currently attached.
func NewFrameAdapter(codecBits, modemBits int) *FrameAdapter {
	return &FrameAdapter{codecBits: codecBits, modemBits: modemBits}
}

// SetSpareSource attaches the outgoing spare-bit producer, e.g. a
// TextChannel for ad hoc text or a ReliableTextTX for reliable text. A nil
// source leaves spare bits as zero.
func (f *FrameAdapter) SetSpareSource(src BitSource) { f.spareSrc = src }

// SetSpareSink attaches the incoming spare-bit consumer. A nil sink
// discards spare bits.
func (f *FrameAdapter) SetSpareSink(sink func(bool)) { f.spareSink = sink }

// EnableTestframes switches the adapter to transmit and check the
// deterministic test pattern instead of real codec frames.
func (f *FrameAdapter) EnableTestframes(seed uint32) {
	f.testframes = true
	f.gen = NewTestframeGenerator(seed)
}

// BuildVoiceFrame packs codecFrame (or, in testframe mode, the generator's
// pattern) followed by any available text-channel bits, into one
// modem-sized payload.
func (f *FrameAdapter) BuildVoiceFrame(codecFrame []byte) []byte {
	w := bitpack.NewWriter(f.modemBits)

	var payload []byte
	if f.testframes {
		payload = f.gen.Pattern((f.codecBits + 7) / 8)
	} else {
		payload = codecFrame
	}
	for i := 0; i < f.codecBits; i++ {
		w.Pack(boolBit(bitAt(payload, i)), 1)
	}
	for i := f.codecBits; i < f.modemBits; i++ {
		var bit bool
		if f.spareSrc != nil {
			bit, _ = f.spareSrc.NextBit()
		}
		w.Pack(boolBit(bit), 1)
	}
	return w.Bytes()
}

// ParseVoiceFrame splits a received modem payload back into the codec2
// frame and feeds any remaining bits to the text channel. In testframe
// mode it instead checks the payload against the expected pattern and
// returns nil.
func (f *FrameAdapter) ParseVoiceFrame(payload []byte) (codecFrame []byte) {
	r := bitpack.NewReader(payload)
	codecBytes := (f.codecBits + 7) / 8
	raw := make([]byte, codecBytes)
	bw := bitpack.NewWriter(f.codecBits)
	for i := 0; i < f.codecBits; i++ {
		bw.Pack(r.Unpack(1), 1)
	}
	raw = bw.Bytes()

	for i := f.codecBits; i < f.modemBits; i++ {
		bit := r.Unpack(1) != 0
		if f.spareSink != nil {
			f.spareSink(bit)
		}
	}

	if f.testframes {
		f.gen.CheckFrame(raw)
		return nil
	}
	return raw
}

// TestframeLocked reports whether the testframe generator has declared
// lock, meaningless when testframes are disabled.
func (f *FrameAdapter) TestframeLocked() bool {
	if f.gen == nil {
		return false
	}
	return f.gen.Locked()
}

// TestframeStats returns the running bit-error counters.
func (f *FrameAdapter) TestframeStats() Stats {
	if f.gen == nil {
		return Stats{}
	}
	return f.gen.Stats()
}

// ResetTestframeStats clears the counters and lock window, e.g. on sync
// loss.
func (f *FrameAdapter) ResetTestframeStats() {
	if f.gen != nil {
		f.gen.ResetStats()
	}
}

func boolBit(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
