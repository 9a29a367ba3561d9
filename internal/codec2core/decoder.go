package codec2core

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/freedv-go/codec2/internal/bitpack"
	"github.com/freedv-go/codec2/internal/c2const"
	"github.com/freedv-go/codec2/internal/lspquant"
	"github.com/freedv-go/codec2/internal/phase"
	"github.com/freedv-go/codec2/internal/rateq"
	"github.com/freedv-go/codec2/internal/sinusoidal"
	"github.com/freedv-go/codec2/internal/synth"
)

// postfilterGain is the newamp1 decoder postfilter's fixed boost.
const postfilterGain = 1.2

// Decoder unpacks one mode's quantised parameters, interpolates them
// across the super-frame's sub-frames, and runs phase reconstruction and
// sinusoidal synthesis per sub-frame.
type Decoder struct {
	params ModeParams
	c2c    c2const.C2Const

	synth   *synth.Synthesiser
	exPhase phase.ExcitationPhase
	rng     *rand.Rand

	// LSP-family continuity.
	prevLSP      []float64
	prevWo       float64
	prevEnergyDB float64
	jointSt      lspquant.JointWoEPredictorState

	// Rate-K-family continuity.
	prevMeanRemoved [rateq.K]float64
	prevMean        float64
	prevRateKWo     float64
	prevRateKVoiced bool
}

// NewDecoder returns a Decoder for mode.
func NewDecoder(mode Mode) (*Decoder, error) {
	params, ok := Table[mode]
	if !ok {
		return nil, fmt.Errorf("codec2core: unknown mode %d", mode)
	}
	c2c := c2const.New(params.SampleRate)
	return &Decoder{
		params:       params,
		c2c:          c2c,
		synth:        synth.NewSynthesiser(c2c.NSamp),
		rng:          rand.New(rand.NewSource(1)),
		prevLSP:      lspquant.FallbackLSP(lspquant.Order),
		prevEnergyDB: -10,
		prevRateKWo:  2 * math.Pi / 100,
	}, nil
}

// Params returns the mode parameters this decoder was built for.
func (d *Decoder) Params() ModeParams { return d.params }

// Decode unpacks one modem frame and returns params.SpeechSamples PCM
// samples. degraded signals a DecodeDegraded condition observed upstream
// (e.g. a CRC or sync failure reported by the FreeDV frame layer); when the
// mode defines a SoftMuteThreshold, a degraded frame is rendered as a soft
// mute (unvoiced, collapsed spectrum, energy pulled to its floor) rather
// than reconstructed from the untrusted bits.
func (d *Decoder) Decode(frame []byte, degraded bool) []int16 {
	r := bitpack.NewReader(frame)
	voicing := make([]bool, d.params.SubFrames)
	for i, use := range d.params.VoicingBitPlan {
		v := r.Unpack(1)
		if use == VoicingBit {
			voicing[i] = v != 0
		}
	}

	soften := degraded && d.params.SoftMuteThreshold > 0

	out := make([]int16, 0, d.params.SpeechSamples)
	switch d.params.Family {
	case FamilyLSP:
		out = d.decodeLSPFamily(r, voicing, soften)
	case FamilyRateK:
		out = d.decodeRateKFamily(r, voicing, soften)
	}
	return out
}

func (d *Decoder) decodeLSPFamily(r *bitpack.Reader, voicing []bool, soften bool) []int16 {
	gray := !d.params.Natural

	var lsp []float64
	var wo, energyDB float64

	switch d.params.LSPScheme {
	case LSPScalar:
		bits := lspquant.ScalarCodebookBits()
		idx := make([]int, lspquant.Order)
		for i := range idx {
			idx[i] = int(r.UnpackNaturalOrGray(bits[i], gray))
		}
		lsp = lspquant.ScalarDequantize(idx)
		woIdx := int(r.UnpackNaturalOrGray(lspquant.WoBits, gray))
		wo = lspquant.DequantizeWoDirect(woIdx, d.c2c)
		enIdx := int(r.UnpackNaturalOrGray(lspquant.EnergyBits, gray))
		energyDB = lspquant.DequantizeEnergy(enIdx)

	case LSPDifferential:
		idx := make([]int, lspquant.Order)
		for i := range idx {
			idx[i] = int(r.UnpackNaturalOrGray(lspquant.DiffBits, gray))
		}
		lsp = lspquant.DifferentialDequantize(idx)
		woIdx := int(r.UnpackNaturalOrGray(lspquant.WoBits, gray))
		wo = lspquant.DequantizeWoDirect(woIdx, d.c2c)
		enIdx := int(r.UnpackNaturalOrGray(lspquant.EnergyBits, gray))
		energyDB = lspquant.DequantizeEnergy(enIdx)

	case LSPPredictiveJointVQ:
		var idx [3]int
		idx[0] = int(r.UnpackNaturalOrGray(9, gray))
		idx[1] = int(r.UnpackNaturalOrGray(9, gray))
		idx[2] = int(r.UnpackNaturalOrGray(9, gray))
		lsp = lspquant.PredictiveDequantize(idx, d.prevLSP)
		jointIdx := int(r.UnpackNaturalOrGray(lspquant.JointVQBits, gray))
		var energy float64
		wo, energy = d.jointSt.Dequantize(jointIdx)
		energyDB = lspquant.EnergyDB(energy)
	}
	lspquant.RepairOrder(lsp, d.params.SampleRate)

	if soften {
		lsp = lspquant.FallbackLSP(lspquant.Order)
		energyDB = -10
		for i := range voicing {
			voicing[i] = false
		}
	}

	out := make([]int16, 0, d.params.SpeechSamples)
	for i := 0; i < d.params.SubFrames; i++ {
		t := float64(i+1) / float64(d.params.SubFrames)
		lspI := interpVec(d.prevLSP, lsp, t)
		woI := lerp(d.prevWo, wo, t)
		energyI := lerp(d.prevEnergyDB, energyDB, t)
		if !voicing[i] {
			woI = 2 * math.Pi / 100
		}

		a := lspquant.ToLPC(lspI)
		envelope := lspquant.Envelope(a, dbToLinear(energyI), phase.NFFT)
		out = append(out, d.synthesiseSubframe(woI, voicing[i], envelope)...)
	}

	d.prevLSP, d.prevWo, d.prevEnergyDB = lsp, wo, energyDB
	return out
}

func (d *Decoder) decodeRateKFamily(r *bitpack.Reader, voicing []bool, soften bool) []int16 {
	meanIdx := int(r.Unpack(rateq.MeanBits))
	mean := rateq.DequantizeMean(meanIdx)

	var meanRemoved [rateq.K]float64
	if d.params.RateKTwoStage {
		var idx [2]int
		idx[0] = int(r.Unpack(rateq.VQ1Bits))
		idx[1] = int(r.Unpack(rateq.VQ2Bits))
		meanRemoved = rateq.DequantizeTwoStageVQ(idx)
	} else {
		idx := int(r.Unpack(rateq.VQ1Bits))
		meanRemoved = rateq.DequantizeSingleStageVQ(idx)
	}

	woIdx := int(r.Unpack(rateq.WoBits))
	wo, voiced := rateq.DequantizeWo(woIdx)

	if soften {
		meanRemoved = [rateq.K]float64{}
		mean = -20
		voiced = false
		for i := range voicing {
			voicing[i] = false
		}
	}

	out := make([]int16, 0, d.params.SpeechSamples)
	for i := 0; i < rateq.M; i++ {
		t := float64(i+1) / float64(rateq.M)
		interp := rateq.InterpolateRateK(d.prevMeanRemoved, meanRemoved, t)
		filtered := rateq.Postfilter(interp, postfilterGain)
		meanI := lerp(d.prevMean, mean, t)

		woI, _ := rateq.InterpolateWo(d.prevRateKWo, d.prevRateKVoiced, wo, voiced, t)
		voicedI := rateq.VoicingForSubframe(d.prevRateKVoiced, voiced, i)

		var vec [rateq.K]float64
		for k := range vec {
			vec[k] = filtered[k] + meanI
		}
		envelope := rateq.EnvelopeDB(vec, d.params.SampleRate, phase.NFFT)
		out = append(out, d.synthesiseSubframe(woI, voicedI, envelope)...)
	}

	d.prevMeanRemoved, d.prevMean = meanRemoved, mean
	d.prevRateKWo, d.prevRateKVoiced = wo, voiced
	return out
}

// synthesiseSubframe runs C4 (minimum-phase spectrum + harmonic phase) and
// C5 (overlap-add sinusoidal synthesis) for one 10ms sub-frame.
func (d *Decoder) synthesiseSubframe(wo float64, voiced bool, envelopeDB func(int) float64) []int16 {
	l := c2const.HarmonicCount(wo)
	spectrum := phase.MinimumPhaseSpectrum(envelopeDB)

	var m sinusoidal.Model
	m.Wo, m.L, m.Voiced = wo, l, voiced
	for h := 1; h <= l; h++ {
		bin := phase.HarmonicBin(h, wo, phase.NFFT)
		ampDB := envelopeDB(bin)
		m.A[h] = dbToLinear20(ampDB)
		m.Phi[h] = phase.HarmonicPhase(spectrum, bin, h, d.exPhase.Value, voiced, d.rng)
	}
	d.exPhase.Advance(wo, d.c2c.NSamp)

	return d.synth.Synthesize(m.Wo, m.L, m.A[:], m.Phi[:])
}

func interpVec(prev, cur []float64, t float64) []float64 {
	out := make([]float64, len(cur))
	for i := range out {
		out[i] = lerp(prev[i], cur[i], t)
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

func dbToLinear(db float64) float64   { return math.Pow(10, db/10) }
func dbToLinear20(db float64) float64 { return math.Pow(10, db/20) }
