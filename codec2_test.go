package codec2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParamsKnownModes(t *testing.T) {
	for _, m := range []Mode{Mode3200, Mode2400, Mode1600, Mode1400, Mode1300, Mode1200, Mode700C, Mode450} {
		p, ok := Params(m)
		assert.True(t, ok)
		assert.Greater(t, p.SpeechSamples, 0)
		assert.Greater(t, p.BitsPerFrame, 0)
		assert.Equal(t, (p.BitsPerFrame+7)/8, p.BytesPerFrame)
	}
}

func TestParamsUnknownModeReportsFalse(t *testing.T) {
	_, ok := Params(Mode(99))
	assert.False(t, ok)
}

func TestNewEncoderUnknownModeReturnsConfigError(t *testing.T) {
	_, err := NewEncoder(Mode(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestEncodePanicsOnWrongSampleCount(t *testing.T) {
	enc, err := NewEncoder(Mode1600)
	require.NoError(t, err)
	assert.Panics(t, func() {
		enc.Encode(make([]int16, 1))
	})
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	c := NewConfig(WithMode(Mode700C), WithClip(true), WithSquelch(-2), WithVerbose(2))
	data, err := c.ToYAML()
	require.NoError(t, err)

	var got Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, c.Mode, got.Mode)
	assert.Equal(t, c.Clip, got.Clip)
	assert.Equal(t, c.SquelchEnabled, got.SquelchEnabled)
	assert.Equal(t, c.SquelchThreshdB, got.SquelchThreshdB)
	assert.Equal(t, c.Verbose, got.Verbose)
}
