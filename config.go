package codec2

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freedv-go/codec2/internal/freedvlog"
)

// SyncCmd is the manual sync override.
type SyncCmd int

const (
	SyncAuto SyncCmd = iota
	SyncUnsync
	SyncManual
)

// Config holds the recognised session configuration options. Construct
// with NewConfig and Option functions; Config itself is a plain value so
// it round-trips through YAML for file-based setups.
type Config struct {
	Mode Mode `yaml:"mode"`

	Clip             bool    `yaml:"clip"`
	TXBandpass       bool    `yaml:"tx_bpf"`
	DPSK             bool    `yaml:"dpsk"`
	SquelchEnabled   bool    `yaml:"squelch_en"`
	SquelchThreshdB  float64 `yaml:"snr_squelch_thresh_db"`
	Equaliser        bool    `yaml:"eq"`
	FramesPerBurst   int     `yaml:"frames_per_burst"`
	Testframes       bool    `yaml:"testframes"`
	TXAmp            float64 `yaml:"tx_amp"`
	Verbose          int     `yaml:"verbose"`
	SyncCmd          SyncCmd `yaml:"sync_cmd"`
	TuningRangeHzMin float64 `yaml:"tuning_range_hz_min"`
	TuningRangeHzMax float64 `yaml:"tuning_range_hz_max"`
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithMode selects the codec2 mode.
func WithMode(m Mode) Option { return func(c *Config) { c.Mode = m } }

// WithClip enables TX magnitude clipping to reduce PAPR.
func WithClip(v bool) Option { return func(c *Config) { c.Clip = v } }

// WithTXBandpass enables the SSB-like TX bandpass filter.
func WithTXBandpass(v bool) Option { return func(c *Config) { c.TXBandpass = v } }

// WithDPSK switches PSK modems to differential mode.
func WithDPSK(v bool) Option { return func(c *Config) { c.DPSK = v } }

// WithSquelch enables output squelch below thresholdDB estimated SNR.
func WithSquelch(thresholdDB float64) Option {
	return func(c *Config) { c.SquelchEnabled = true; c.SquelchThreshdB = thresholdDB }
}

// WithEqualiser enables the encoder-side rate-K equaliser.
func WithEqualiser(v bool) Option { return func(c *Config) { c.Equaliser = v } }

// WithFramesPerBurst sets the expected raw-data burst size.
func WithFramesPerBurst(n int) Option { return func(c *Config) { c.FramesPerBurst = n } }

// WithTestframes replaces the speech payload with a deterministic test
// pattern for BER/PER measurement.
func WithTestframes(v bool) Option { return func(c *Config) { c.Testframes = v } }

// WithTXAmp sets linear TX gain.
func WithTXAmp(gain float64) Option { return func(c *Config) { c.TXAmp = gain } }

// WithVerbose sets diagnostic verbosity (0, 1, or 2).
func WithVerbose(level int) Option { return func(c *Config) { c.Verbose = level } }

// WithSyncCmd sets the manual sync override.
func WithSyncCmd(s SyncCmd) Option { return func(c *Config) { c.SyncCmd = s } }

// WithTuningRangeHz limits the frequency-offset search range.
func WithTuningRangeHz(min, max float64) Option {
	return func(c *Config) { c.TuningRangeHzMin, c.TuningRangeHzMax = min, max }
}

// NewConfig returns a Config with sensible defaults (mode 1600, AUTO sync,
// silent logging), then applies opts in order.
func NewConfig(opts ...Option) Config {
	c := Config{
		Mode:            Mode1600,
		TXAmp:           1.0,
		SyncCmd:         SyncAuto,
		SquelchThreshdB: 0,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Logger builds the freedvlog.Logger this Config's Verbose level implies.
func (c Config) Logger() freedvlog.Logger {
	switch {
	case c.Verbose >= 2:
		return freedvlog.New(freedvlog.LevelDebug)
	case c.Verbose == 1:
		return freedvlog.New(freedvlog.LevelInfo)
	default:
		return freedvlog.New(freedvlog.LevelSilent)
	}
}

// LoadConfigYAML reads a YAML-encoded Config from path.
func LoadConfigYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return c, nil
}

// ToYAML serialises c for persistence alongside a session's .c2 file
// header.
func (c Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
