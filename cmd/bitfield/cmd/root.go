package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is the version of the binary.
	Version = "0.0.0"

	// Commit is the commit hash of the binary.
	Commit = ""
)

const envPrefix = "BITFIELD"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bitfield",
		Short: "Read and pack bit fields",
		Long: `bitfield reads fixed-width bit fields out of binary data and packs
values into bit fields, using the bitbuf Reader and Writer.

Field widths are given either with --widths or with a --layout file.
Every flag can also be set from the environment, e.g. BITFIELD_WIDTHS=4,4,8.`,
		Version:      fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("layout", "", "layout file (yaml, json or toml) with a list of {name, width} fields")
	flags.String("widths", "", "comma separated field widths, e.g. 4,4,8")
	flags.BoolP("verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(newReadCmd(), newPackCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig binds the command's flags to a viper instance that also
// consults BITFIELD_* environment variables.
func loadConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	if err := vip.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return vip, nil
}

// newLogger returns a console logger writing to the command's stderr at
// debug level when --verbose is set, and a no-op logger otherwise.
func newLogger(cmd *cobra.Command, vip *viper.Viper) *zap.Logger {
	if !vip.GetBool("verbose") {
		return zap.NewNop()
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(cmd.ErrOrStderr()),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)
	return zap.New(core).Named(cmd.Name())
}
