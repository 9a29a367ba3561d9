package freedv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestVaricodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch := byte(rapid.IntRange(0, 127).Draw(t, "ch"))
		bits := EncodeVaricode(ch)
		var dec VaricodeDecoder
		var got byte
		var ok bool
		for _, b := range bits {
			got, ok = dec.PutBit(b)
		}
		assert.True(t, ok)
		assert.Equal(t, ch, got)
	})
}

func TestTextChannelRoundTrip(t *testing.T) {
	msg := []byte("CQ DE TEST")
	idx := 0
	src := callbackSource{next: func() (byte, bool) {
		if idx >= len(msg) {
			return 0, false
		}
		ch := msg[idx]
		idx++
		return ch, true
	}}
	var received []byte
	sink := callbackSink{put: func(ch byte) { received = append(received, ch) }}

	tx := NewTextChannel(src, nil)
	rx := NewTextChannel(nil, sink)

	for len(received) < len(msg) {
		bit, ok := tx.NextBit()
		if !ok {
			break
		}
		rx.PutBit(bit)
	}
	assert.Equal(t, msg, received)
}

type callbackSource struct{ next func() (byte, bool) }

func (c callbackSource) NextChar() (byte, bool) { return c.next() }

type callbackSink struct{ put func(byte) }

func (c callbackSink) PutChar(ch byte) { c.put(ch) }

func TestReliableTextRoundTrip(t *testing.T) {
	var tx ReliableTextTX
	tx.SetString("VK2ABC")
	var rx ReliableTextRX

	var got string
	var ok bool
	for i := 0; i < ReliableTextBits*3 && !ok; i++ {
		bit, _ := tx.NextBit()
		got, ok = rx.PutBit(bit)
	}
	assert.True(t, ok)
	assert.Equal(t, "VK2ABC", got)
}

func TestDataFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "payload")
		source := byte(rapid.IntRange(0, 255).Draw(t, "source"))
		seq := byte(rapid.IntRange(0, 255).Draw(t, "seq"))

		framed := BuildDataFrame(source, seq, payload)
		gotSource, gotSeq, gotPayload, crcOK, ok := ParseDataFrame(framed)

		assert.True(t, ok)
		assert.True(t, crcOK)
		assert.Equal(t, source, gotSource)
		assert.Equal(t, seq, gotSeq)
		assert.Equal(t, payload, gotPayload)
	})
}

func TestDataFrameCrcMismatchDetected(t *testing.T) {
	framed := BuildDataFrame(1, 2, []byte{0xAA, 0xBB})
	framed[2] ^= 0xFF
	_, _, _, crcOK, ok := ParseDataFrame(framed)
	assert.True(t, ok)
	assert.False(t, crcOK)
}

func TestNinGovernorDriftCompensation(t *testing.T) {
	g := NewNinGovernor(100, 2)
	assert.Equal(t, 100, g.Nin())

	g.UpdateTimingError(0.6)
	assert.Equal(t, 98, g.Nin())

	g2 := NewNinGovernor(100, 2)
	g2.UpdateTimingError(-0.6)
	assert.Equal(t, 102, g2.Nin())
}

func TestNinGovernorBurstClampsToNominal(t *testing.T) {
	g := NewNinGovernor(100, 2)
	g.SetBurst(true)
	g.UpdateTimingError(0.9)
	assert.Equal(t, 100, g.Nin())
}

func TestLoopbackModemRoundTrip(t *testing.T) {
	m := NewLoopbackModem(64)
	bits := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0}

	samples := m.ModTX(bits)
	assert.Equal(t, 64, len(samples))

	got, status, ok := m.DemodRX(samples[:m.Nin()])
	assert.True(t, ok)
	assert.True(t, status.Has(StatusSync))
	assert.Equal(t, bits, got)
}

func TestLoopbackModemUnsyncCommand(t *testing.T) {
	m := NewLoopbackModem(16)
	m.SetSyncCmd(SyncCmdUnsync)
	assert.Equal(t, Unsync, m.SyncState())
	_, _, ok := m.DemodRX(make([]int16, 16))
	assert.False(t, ok)
}

func TestTestframeGeneratorLocksOnMatchingPattern(t *testing.T) {
	gen := NewTestframeGenerator(42)
	for i := 0; i < testframeLockWindow; i++ {
		gen.CheckFrame(gen.Pattern(8))
	}
	assert.True(t, gen.Locked())
	assert.Equal(t, uint64(0), gen.Stats().Terrs)
}

func TestTestframeGeneratorDetectsMismatch(t *testing.T) {
	gen := NewTestframeGenerator(42)
	garbage := make([]byte, 8)
	for i := range garbage {
		garbage[i] = byte(i) ^ 0xFF
	}
	for i := 0; i < testframeLockWindow; i++ {
		gen.CheckFrame(garbage)
	}
	assert.False(t, gen.Locked())
	assert.Greater(t, gen.Stats().Terrs, uint64(0))
}

func TestFrameAdapterVoiceRoundTripWithText(t *testing.T) {
	const codecBits, modemBits = 32, 48
	fa := NewFrameAdapter(codecBits, modemBits)

	msg := []byte("HI")
	idx := 0
	txText := NewTextChannel(callbackSource{next: func() (byte, bool) {
		if idx >= len(msg) {
			return 0, false
		}
		ch := msg[idx]
		idx++
		return ch, true
	}}, nil)
	fa.SetSpareSource(txText)

	var received []byte
	rxText := NewTextChannel(nil, callbackSink{put: func(ch byte) { received = append(received, ch) }})
	fa.SetSpareSink(rxText.PutBit)

	codecFrame := []byte{0x01, 0x02, 0x03, 0x04}
	for i := 0; i < 20 && len(received) < len(msg); i++ {
		payload := fa.BuildVoiceFrame(codecFrame)
		got := fa.ParseVoiceFrame(payload)
		assert.Equal(t, codecFrame, got)
	}
	assert.Equal(t, msg, received)
}

func TestFrameAdapterTestframeMode(t *testing.T) {
	const codecBits, modemBits = 16, 16
	fa := NewFrameAdapter(codecBits, modemBits)
	fa.EnableTestframes(7)

	for i := 0; i < testframeLockWindow; i++ {
		payload := fa.BuildVoiceFrame(nil)
		out := fa.ParseVoiceFrame(payload)
		assert.Nil(t, out)
	}
	assert.True(t, fa.TestframeLocked())
	assert.Equal(t, uint64(0), fa.TestframeStats().Terrs)

	fa.ResetTestframeStats()
	assert.False(t, fa.TestframeLocked())
	assert.Equal(t, uint64(0), fa.TestframeStats().Tbits)
}
