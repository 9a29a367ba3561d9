package codec2core

import (
	"fmt"

	"github.com/freedv-go/codec2/internal/bitpack"
	"github.com/freedv-go/codec2/internal/c2const"
	"github.com/freedv-go/codec2/internal/lspquant"
	"github.com/freedv-go/codec2/internal/rateq"
	"github.com/freedv-go/codec2/internal/sinusoidal"
)

// Encoder runs one mode's super-frame loop: sinusoidal analysis per
// sub-frame, LSP or rate-K amplitude quantisation on the final sub-frame,
// and bit packing into the modem frame.
type Encoder struct {
	params ModeParams
	c2c    c2const.C2Const

	analyser *sinusoidal.Analyser

	// LSP-family continuity state.
	prevLSP []float64
	jointSt lspquant.JointWoEPredictorState

	// Rate-K-family continuity state.
	eq rateq.Equaliser
}

// NewEncoder returns an Encoder for mode. mode must be a key of Table.
func NewEncoder(mode Mode) (*Encoder, error) {
	params, ok := Table[mode]
	if !ok {
		return nil, fmt.Errorf("codec2core: unknown mode %d", mode)
	}
	c2c := c2const.New(params.SampleRate)
	e := &Encoder{
		params:   params,
		c2c:      c2c,
		analyser: sinusoidal.NewAnalyser(c2c),
		prevLSP:  lspquant.FallbackLSP(lspquant.Order),
	}
	return e, nil
}

// Params returns the mode parameters this encoder was built for.
func (e *Encoder) Params() ModeParams { return e.params }

// SetEqualiser force-enables the rate-K equaliser for this encoder
// instance even on a mode whose table entry leaves it off by default. It
// has no effect on a FamilyLSP mode, which has no equaliser stage.
func (e *Encoder) SetEqualiser(enabled bool) {
	if enabled {
		e.params.EqualiserEnabled = true
	}
}

// Encode consumes exactly params.SpeechSamples PCM samples and returns one
// packed modem frame. It never returns an error for well-formed input;
// callers are responsible for supplying exactly SpeechSamples samples (a
// length mismatch is a programmer error, not a recoverable runtime
// condition).
func (e *Encoder) Encode(pcm []int16) []byte {
	nSamp := e.c2c.NSamp
	models := make([]sinusoidal.Model, e.params.SubFrames)
	samples := make([]float64, nSamp)
	for i := 0; i < e.params.SubFrames; i++ {
		for j := 0; j < nSamp; j++ {
			samples[j] = float64(pcm[i*nSamp+j])
		}
		e.analyser.AddSamples(samples)
		models[i] = e.analyser.Analyse()
	}
	final := models[e.params.SubFrames-1]

	w := bitpack.NewWriter(e.params.BitsPerFrame)
	for i, use := range e.params.VoicingBitPlan {
		switch use {
		case VoicingBit:
			w.Pack(boolBit(models[i].Voiced), 1)
		case SpareBit:
			w.Pack(0, 1) // reserved signalling slot, unused by this implementation
		}
	}

	switch e.params.Family {
	case FamilyLSP:
		e.encodeLSPFamily(w, e.analyser.Buffer(), final)
	case FamilyRateK:
		e.encodeRateKFamily(w, final)
	}

	return w.Bytes()
}

func (e *Encoder) encodeLSPFamily(w *bitpack.Writer, windowed []float64, final sinusoidal.Model) {
	r := lspquant.Autocorrelation(windowed, lspquant.Order)
	a, energy := lspquant.LevinsonDurbin(r, lspquant.Order)
	aExp := lspquant.BandwidthExpand(a)
	lsp, _ := lspquant.ToLSP(aExp) // LspRootFind degrades to FallbackLSP internally
	lspquant.RepairOrder(lsp, e.params.SampleRate)

	gray := !e.params.Natural

	switch e.params.LSPScheme {
	case LSPScalar:
		idx := lspquant.ScalarQuantize(lsp)
		bits := lspquant.ScalarCodebookBits()
		for i, ix := range idx {
			w.PackNaturalOrGray(uint32(ix), bits[i], gray)
		}
		woIdx := lspquant.QuantizeWoDirect(final.Wo, e.c2c)
		w.PackNaturalOrGray(uint32(woIdx), lspquant.WoBits, gray)
		enIdx := lspquant.QuantizeEnergy(lspquant.EnergyDB(energy))
		w.PackNaturalOrGray(uint32(enIdx), lspquant.EnergyBits, gray)
		e.prevLSP = lsp

	case LSPDifferential:
		idx := lspquant.DifferentialQuantize(lsp)
		for _, ix := range idx {
			w.PackNaturalOrGray(uint32(ix), lspquant.DiffBits, gray)
		}
		woIdx := lspquant.QuantizeWoDirect(final.Wo, e.c2c)
		w.PackNaturalOrGray(uint32(woIdx), lspquant.WoBits, gray)
		enIdx := lspquant.QuantizeEnergy(lspquant.EnergyDB(energy))
		w.PackNaturalOrGray(uint32(enIdx), lspquant.EnergyBits, gray)
		e.prevLSP = lsp

	case LSPPredictiveJointVQ:
		idx, quantised := lspquant.PredictiveQuantize(lsp, e.prevLSP)
		w.PackNaturalOrGray(uint32(idx[0]), 9, gray)
		w.PackNaturalOrGray(uint32(idx[1]), 9, gray)
		w.PackNaturalOrGray(uint32(idx[2]), 9, gray)
		jointIdx := e.jointSt.Quantize(final.Wo, energy)
		w.PackNaturalOrGray(uint32(jointIdx), lspquant.JointVQBits, gray)
		e.prevLSP = quantised
	}
}

func (e *Encoder) encodeRateKFamily(w *bitpack.Writer, final sinusoidal.Model) {
	vec := rateq.ResampleToRateK(final.A[:], final.L, final.Wo, e.params.SampleRate)
	if e.params.EqualiserEnabled {
		vec = e.eq.Apply(vec)
	}
	meanRemoved, mean := rateq.RemoveMean(vec)

	meanIdx := rateq.QuantizeMean(mean)
	w.Pack(uint32(meanIdx), rateq.MeanBits)

	if e.params.RateKTwoStage {
		idx, _ := rateq.TwoStageVQ(meanRemoved)
		w.Pack(uint32(idx[0]), rateq.VQ1Bits)
		w.Pack(uint32(idx[1]), rateq.VQ2Bits)
	} else {
		idx, _ := rateq.SingleStageVQ(meanRemoved)
		w.Pack(uint32(idx), rateq.VQ1Bits)
	}

	woIdx := rateq.QuantizeWo(final.Wo, final.Voiced)
	w.Pack(uint32(woIdx), rateq.WoBits)
}

func boolBit(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
