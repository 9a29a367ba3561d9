package codec2

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedv-go/codec2/internal/freedv"
)

func synthVoicedPCM(n int, pitchHz, sampleRate float64) []int16 {
	out := make([]int16, n)
	period := sampleRate / pitchHz
	for i := 0; i < n; i++ {
		phase := math.Mod(float64(i), period) / period
		out[i] = int16(8000 * math.Sin(2*math.Pi*phase))
	}
	return out
}

func openLoopbackSession(t *testing.T, opts ...Option) (*Session, ModeParams) {
	t.Helper()
	cfg := NewConfig(opts...)
	params, ok := Params(cfg.Mode)
	require.True(t, ok)
	modem := NewLoopbackModem(params.BitsPerFrame)
	sess, err := Open(cfg, modem)
	require.NoError(t, err)
	return sess, params
}

func TestSessionVoiceRoundTrip(t *testing.T) {
	sess, params := openLoopbackSession(t, WithMode(Mode1600))
	pcm := synthVoicedPCM(sess.SpeechSamples(), 120, float64(params.SampleRate))

	samples := sess.Tx(pcm)
	assert.Len(t, samples, params.BitsPerFrame)

	out, status := sess.Rx(samples)
	assert.True(t, status.Has(StatusSync))
	assert.Len(t, out, params.SpeechSamples)
}

func TestSessionOpenRejectsUndersizedModem(t *testing.T) {
	cfg := NewConfig(WithMode(Mode1600))
	params, _ := Params(cfg.Mode)
	modem := NewLoopbackModem(params.BitsPerFrame - 1)
	_, err := Open(cfg, modem)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestSessionNotSyncedReturnsNilPCMNoError(t *testing.T) {
	cfg := NewConfig(WithMode(Mode1600))
	params, _ := Params(cfg.Mode)
	modem := NewLoopbackModem(params.BitsPerFrame)
	sess, err := Open(cfg, modem)
	require.NoError(t, err)

	modem.SetSyncCmd(freedv.SyncCmdUnsync)
	out, status := sess.Rx(make([]int16, params.BitsPerFrame))
	assert.Nil(t, out)
	assert.False(t, status.Has(StatusSync))
}

func TestSessionTestframeLocksWithNoChannelErrors(t *testing.T) {
	sess, params := openLoopbackSession(t, WithMode(Mode700C), WithTestframes(true))

	for i := 0; i < 16; i++ {
		pcm := make([]int16, sess.SpeechSamples())
		samples := sess.Tx(pcm)
		out, status := sess.Rx(samples)
		assert.Nil(t, out)
		assert.True(t, status.Has(StatusSync))
	}
	assert.True(t, sess.TestframeLocked())
	assert.Equal(t, uint64(0), sess.TestframeStats().Terrs)
	_ = params
}

func TestSessionDataFrameRoundTrip(t *testing.T) {
	cfg := NewConfig(WithMode(Mode1300))
	// BuildDataFrame's header+CRC overhead needs more room than the voice
	// codec payload alone, so the data-mode modem frame is sized for the
	// burst rather than reused from Params.
	modem := NewLoopbackModem(64)
	sess, err := Open(cfg, modem)
	require.NoError(t, err)

	payload := []byte{0x01, 0x02, 0x03, 0x04}
	samples := sess.TxData(payload)

	source, seq, got, status, ok := sess.RxData(samples)
	assert.True(t, ok)
	assert.True(t, status.Has(StatusSync))
	assert.Equal(t, byte(0), source)
	assert.Equal(t, byte(0), seq)
	assert.Equal(t, payload, got)
	assert.Equal(t, uint64(1), sess.DataStats().Tpackets)
	assert.Equal(t, uint64(0), sess.DataStats().TpacketErrs)
}

type fixedTextSource struct {
	msg []byte
	pos int
}

func (s *fixedTextSource) NextChar() (byte, bool) {
	if s.pos >= len(s.msg) {
		return 0, false
	}
	ch := s.msg[s.pos]
	s.pos++
	return ch, true
}

type collectingTextSink struct{ got []byte }

func (s *collectingTextSink) PutChar(ch byte) { s.got = append(s.got, ch) }

func TestSessionTextSideChannelRoundTrip(t *testing.T) {
	cfg := NewConfig(WithMode(Mode1600))
	params, _ := Params(cfg.Mode)
	modemBits := params.BitsPerFrame + 16
	modem := NewLoopbackModem(modemBits)
	sess, err := Open(cfg, modem)
	require.NoError(t, err)

	src := &fixedTextSource{msg: []byte("HI")}
	sink := &collectingTextSink{}
	sess.SetTextSource(src)
	sess.SetTextSink(sink)

	pcm := synthVoicedPCM(sess.SpeechSamples(), 120, float64(params.SampleRate))
	for i := 0; i < 30 && len(sink.got) < len(src.msg); i++ {
		samples := sess.Tx(pcm)
		sess.Rx(samples)
	}
	assert.Equal(t, src.msg, sink.got)
}

func TestSessionReliableTextRoundTrip(t *testing.T) {
	cfg := NewConfig(WithMode(Mode1600))
	params, _ := Params(cfg.Mode)
	modemBits := params.BitsPerFrame + 16
	modem := NewLoopbackModem(modemBits)
	sess, err := Open(cfg, modem)
	require.NoError(t, err)

	var recovered string
	sess.OnReliableText(func(s string) { recovered = s })
	sess.SetReliableString("CALL")

	pcm := synthVoicedPCM(sess.SpeechSamples(), 120, float64(params.SampleRate))
	for i := 0; i < 40 && recovered == ""; i++ {
		samples := sess.Tx(pcm)
		sess.Rx(samples)
	}
	assert.Equal(t, "CALL", recovered)
}
