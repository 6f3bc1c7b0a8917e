// Package config loads berdump settings from TOML with environment
// overrides.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	asn1runtime "github.com/wippyai/asn1-runtime"
	"github.com/wippyai/asn1-runtime/arena"
	"github.com/wippyai/asn1-runtime/codec"
	"github.com/wippyai/asn1-runtime/errors"
	"github.com/wippyai/asn1-runtime/frame"
)

const (
	EnvLogLevel    = "ASN1RT_LOG_LEVEL"
	EnvMaxUnitSize = "ASN1RT_MAX_UNIT_SIZE"

	DefaultPath = "berdump.toml"
)

type Config struct {
	Log     Log     `toml:"log"`
	Codec   Codec   `toml:"codec"`
	Frame   Frame   `toml:"frame"`
	Metrics Metrics `toml:"metrics"`
}

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is console or json.
	Format string `toml:"format"`
}

type Codec struct {
	MaxOutput      int `toml:"max_output"`
	MaxDepth       int `toml:"max_depth"`
	ArenaBlockSize int `toml:"arena_block_size"`
	ArenaLimit     int `toml:"arena_limit"`
}

type Frame struct {
	// Framing is auto, ber, http or wais.
	Framing     string `toml:"framing"`
	MaxUnitSize int    `toml:"max_unit_size"`
	MaxDepth    int    `toml:"max_depth"`
}

type Metrics struct {
	// Listen is the address serving /metrics. Empty disables the endpoint.
	Listen string `toml:"listen"`
}

func Default() Config {
	l := frame.DefaultLimits()
	return Config{
		Log: Log{Level: "info", Format: "console"},
		Codec: Codec{
			MaxDepth:       codec.DefaultMaxDepth,
			ArenaBlockSize: 4096,
		},
		Frame: Frame{
			Framing:     "auto",
			MaxUnitSize: l.MaxUnitSize,
			MaxDepth:    l.MaxDepth,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindMalformed, err, "parse "+path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the environment.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindMalformed, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxUnitSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindMalformed, err, EnvMaxUnitSize)
		}
		c.Frame.MaxUnitSize = n
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindMalformed).
			Field("log.level").Value(c.Log.Level).Cause(err).Build()
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.New(errors.PhaseConfig, errors.KindMalformed).
			Field("log.format").Value(c.Log.Format).Detail("want console or json").Build()
	}
	if _, ok := c.Limits().ByName(c.Frame.Framing); !ok {
		return errors.New(errors.PhaseConfig, errors.KindMalformed).
			Field("frame.framing").Value(c.Frame.Framing).Detail("want auto, ber, http or wais").Build()
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"codec.max_output", c.Codec.MaxOutput},
		{"codec.max_depth", c.Codec.MaxDepth},
		{"codec.arena_block_size", c.Codec.ArenaBlockSize},
		{"codec.arena_limit", c.Codec.ArenaLimit},
		{"frame.max_unit_size", c.Frame.MaxUnitSize},
		{"frame.max_depth", c.Frame.MaxDepth},
	} {
		if f.v < 0 {
			return errors.New(errors.PhaseConfig, errors.KindMalformed).
				Field(f.name).Value(f.v).Detail("must not be negative").Build()
		}
	}
	return nil
}

// Logger builds a zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindMalformed, err, "log.level")
	}
	zc := zap.NewDevelopmentConfig()
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func (c Config) Limits() frame.Limits {
	return frame.Limits{MaxUnitSize: c.Frame.MaxUnitSize, MaxDepth: c.Frame.MaxDepth}
}

// Framing returns the configured detector.
func (c Config) Framing() asn1runtime.CompleteFunc {
	fn, _ := c.Limits().ByName(c.Frame.Framing)
	return fn
}

// CodecOptions translates the codec section into context options.
func (c Config) CodecOptions() []codec.Option {
	var opts []codec.Option
	if c.Codec.MaxOutput > 0 {
		opts = append(opts, codec.WithMaxOutput(c.Codec.MaxOutput))
	}
	if c.Codec.MaxDepth > 0 {
		opts = append(opts, codec.WithMaxDepth(c.Codec.MaxDepth))
	}
	var aopts []arena.Option
	if c.Codec.ArenaBlockSize > 0 {
		aopts = append(aopts, arena.WithBlockSize(c.Codec.ArenaBlockSize))
	}
	if c.Codec.ArenaLimit > 0 {
		aopts = append(aopts, arena.WithLimit(c.Codec.ArenaLimit))
	}
	if len(aopts) > 0 {
		opts = append(opts, codec.WithArenaOptions(aopts...))
	}
	return opts
}

// Template is a commented starting configuration.
const Template = `[log]
level = "info"      # debug, info, warn, error
format = "console"  # console or json

[codec]
max_output = 0          # encode buffer cap in bytes, 0 = unlimited
max_depth = 64
arena_block_size = 4096
arena_limit = 0         # decode arena cap in bytes, 0 = unlimited

[frame]
framing = "auto"        # auto, ber, http, wais
max_unit_size = 16777216
max_depth = 32

[metrics]
listen = ""             # e.g. "127.0.0.1:9464"
`

// WriteTemplate writes Template to path, refusing to overwrite an existing
// file unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.PhaseConfig, errors.KindOther).
				Field(path).Detail("config already exists").Build()
		}
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindOther, err, "write "+path)
	}
	return nil
}
