package codec2

import (
	"fmt"

	"github.com/freedv-go/codec2/internal/codec2core"
)

// Mode selects a codec2 bit-rate profile.
type Mode int

const (
	Mode3200 Mode = Mode(codec2core.Mode3200)
	Mode2400 Mode = Mode(codec2core.Mode2400)
	Mode1600 Mode = Mode(codec2core.Mode1600)
	Mode1400 Mode = Mode(codec2core.Mode1400)
	Mode1300 Mode = Mode(codec2core.Mode1300)
	Mode1200 Mode = Mode(codec2core.Mode1200)
	Mode700C Mode = Mode(codec2core.Mode700C)
	Mode450  Mode = Mode(codec2core.Mode450)
)

// ModeParams describes one mode's frame geometry: how many PCM samples an
// Encode call consumes, and how many bits (and bytes, rounded up) a Decode
// call expects back.
type ModeParams struct {
	SpeechSamples int
	BitsPerFrame  int
	BytesPerFrame int
	SampleRate    int
}

func paramsFor(m Mode) (codec2core.ModeParams, bool) {
	p, ok := codec2core.Table[codec2core.Mode(m)]
	return p, ok
}

// Params returns mode's frame geometry, or false if mode is unknown.
func Params(mode Mode) (ModeParams, bool) {
	p, ok := paramsFor(mode)
	if !ok {
		return ModeParams{}, false
	}
	return ModeParams{
		SpeechSamples: p.SpeechSamples,
		BitsPerFrame:  p.BitsPerFrame,
		BytesPerFrame: (p.BitsPerFrame + 7) / 8,
		SampleRate:    p.SampleRate,
	}, true
}

// Encoder turns PCM speech into packed codec2 frames, one call per
// super-frame's worth of speech samples. An Encoder is not safe for
// concurrent use; the caller owns one per TX stream.
//
// The analyser's rolling input buffer and analysis window are allocated
// once at construction and reused call to call. Encode still allocates
// per call: the working slices of analysis, pitch estimation and
// quantisation as well as the returned frame.
type Encoder struct {
	core   *codec2core.Encoder
	params ModeParams
}

// NewEncoder constructs an Encoder for mode. It returns ErrConfig if mode
// is not one of the Mode constants.
func NewEncoder(mode Mode) (*Encoder, error) {
	p, ok := paramsFor(mode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrConfig, mode)
	}
	core, err := codec2core.NewEncoder(codec2core.Mode(mode))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	mp, _ := Params(mode)
	return &Encoder{core: core, params: mp}, nil
}

// SpeechSamples is the exact PCM sample count Encode requires per call.
func (e *Encoder) SpeechSamples() int { return e.params.SpeechSamples }

// SetEqualiser force-enables the rate-K equaliser on this Encoder
// regardless of its mode's default. It has no effect on a mode that
// doesn't use the rate-K quantiser family.
func (e *Encoder) SetEqualiser(enabled bool) { e.core.SetEqualiser(enabled) }

// BitsPerFrame is the exact bit count Decode's matching Decoder expects.
func (e *Encoder) BitsPerFrame() int { return e.params.BitsPerFrame }

// Encode packs len(pcm) == SpeechSamples() PCM samples into one codec2
// frame. It panics if pcm has the wrong length: malformed caller input is
// treated as a programmer error rather than a recoverable per-frame
// condition.
func (e *Encoder) Encode(pcm []int16) []byte {
	if len(pcm) != e.params.SpeechSamples {
		panic(fmt.Sprintf("codec2: Encode expects %d samples, got %d", e.params.SpeechSamples, len(pcm)))
	}
	return e.core.Encode(pcm)
}

// Decoder reconstructs PCM speech from packed codec2 frames. Not safe for
// concurrent use.
type Decoder struct {
	core   *codec2core.Decoder
	params ModeParams
}

// NewDecoder constructs a Decoder for mode.
func NewDecoder(mode Mode) (*Decoder, error) {
	p, ok := paramsFor(mode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrConfig, mode)
	}
	core, err := codec2core.NewDecoder(codec2core.Mode(mode))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	mp, _ := Params(mode)
	return &Decoder{core: core, params: mp}, nil
}

// SpeechSamples is the exact PCM sample count Decode returns per call.
func (d *Decoder) SpeechSamples() int { return d.params.SpeechSamples }

// Decode unpacks one codec2 frame into PCM speech. degraded signals a
// DecodeDegraded condition observed by the caller (typically a FreeDV
// session reporting sustained bit errors); on modes with a soft-mute
// threshold, a degraded frame is rendered as silence-adjacent soft mute
// rather than reconstructed from untrusted bits
func (d *Decoder) Decode(frame []byte, degraded bool) []int16 {
	return d.core.Decode(frame, degraded)
}
