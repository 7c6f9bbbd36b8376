package config

import (
	"fmt"
	"path/filepath"

	"github.com/spacemeshos/smutil"

	"github.com/edombrower/hifi/codec"
	"github.com/edombrower/hifi/shared"
)

const (
	MaxMaxValueSize = 1 << 30
	MinMaxValueSize = 1
)

const (
	DefaultDataDirName = "data"

	DefaultMaxValueSize = codec.DefaultMaxValueSize

	// 0 means unbounded.
	DefaultMaxTransient = 0
)

var (
	DefaultDataDir = filepath.Join(smutil.GetUserHomeDirectory(), "hifi", DefaultDataDirName)
)

type Config struct {
	DataDir string `mapstructure:"hifi-datadir"`

	// Protocol params.
	MaxValueSize uint32 `mapstructure:"hifi-max-value-size"`
	MaxTransient int    `mapstructure:"hifi-max-transient"`
}

func (cfg *Config) Validate() error {
	if cfg.MaxValueSize > MaxMaxValueSize {
		return fmt.Errorf("invalid `MaxValueSize`; expected: <= %d, given: %d", MaxMaxValueSize, cfg.MaxValueSize)
	}

	if cfg.MaxValueSize < MinMaxValueSize {
		return fmt.Errorf("invalid `MaxValueSize`; expected: >= %d, given: %d", MinMaxValueSize, cfg.MaxValueSize)
	}

	if cfg.MaxTransient < 0 {
		return fmt.Errorf("invalid `MaxTransient`; expected: >= 0, given: %d", cfg.MaxTransient)
	}

	return nil
}

// StreamOptions translates the config into stream construction options.
func (cfg *Config) StreamOptions(logger shared.Logger) []codec.Option {
	return []codec.Option{
		codec.WithLogger(logger),
		codec.WithMaxValueSize(cfg.MaxValueSize),
		codec.WithMaxTransient(cfg.MaxTransient),
	}
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,

		MaxValueSize: DefaultMaxValueSize,
		MaxTransient: DefaultMaxTransient,
	}
}
