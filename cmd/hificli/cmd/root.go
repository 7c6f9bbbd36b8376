package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spacemeshos/smutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edombrower/hifi/config"
	"github.com/edombrower/hifi/shared"
)

var (
	// Version is the version of the binary, set by main.
	Version = "0.0.0"

	// Commit is the commit hash of the binary, set by main.
	Commit = ""

	cfg = config.DefaultConfig()

	configFile  string
	logLevel    string
	printConfig bool

	logger shared.Logger = shared.NoopLogger{}
)

var rootCmd = &cobra.Command{
	Use:          "hificli",
	Short:        "Dictionary-coded bitstream tool",
	Long:         `hificli encodes token files into dictionary-coded bitstreams and manages the persistent mapping store shared between sessions.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := setupLogger(); err != nil {
			return err
		}

		if printConfig {
			spew.Dump(cfg)
		}

		return nil
	}

	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)

	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configFile, "config", "", "Path to configuration file")
	flags.StringVar(&logLevel, "log-level", zapcore.InfoLevel.String(), "Log level (debug, info, warn, error, panic)")
	flags.BoolVar(&printConfig, "print-config", false, "Print the effective config before running")

	flags.StringVar(&cfg.DataDir, "hifi-datadir",
		cfg.DataDir, "Directory holding the mapping snapshots and store")

	flags.Uint32Var(&cfg.MaxValueSize, "hifi-max-value-size",
		cfg.MaxValueSize, "Max byte length accepted for a single decoded value")

	flags.IntVar(&cfg.MaxTransient, "hifi-max-transient",
		cfg.MaxTransient, "Max transient dictionary entries per session (0 = unbounded)")
}

func Execute() {
	rootCmd.Version = fmt.Sprintf("%s+%s", Version, Commit)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file under the CLI flags: values come from
// the file when present, and a changed flag always wins.
func loadConfig() error {
	vip := viper.New()

	if configFile != "" {
		vip.SetConfigFile(smutil.GetCanonicalPath(configFile))
		if err := vip.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %v", err)
		}
	}

	if err := vip.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	if err := vip.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	cfg.DataDir = smutil.GetCanonicalPath(cfg.DataDir)
	return nil
}

func setupLogger() error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %v", err)
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	zl, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	logger = zapLogger{zl.Sugar()}
	return nil
}

// normalizeFlags lets underscored spellings resolve to the dashed flag names.
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// zapLogger adapts zap's sugared logger to the format-string interface the
// streaming packages consume.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Info(format string, args ...any)    { l.s.Infof(format, args...) }
func (l zapLogger) Debug(format string, args ...any)   { l.s.Debugf(format, args...) }
func (l zapLogger) Warning(format string, args ...any) { l.s.Warnf(format, args...) }
func (l zapLogger) Error(format string, args ...any)   { l.s.Errorf(format, args...) }
func (l zapLogger) Panic(format string, args ...any)   { l.s.Panicf(format, args...) }
