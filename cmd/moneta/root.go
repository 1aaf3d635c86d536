package main

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anvil-platform/moneta/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
	logger  = logr.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "moneta",
	Short: "Resolve and serve monetary amount implementations",
	Long: `moneta builds a catalog of monetary amount providers from the built-in
implementations and AmountProvider manifests, and answers which amount type
satisfies a required precision, scale and flavor.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log catalog decisions to stderr")
	flags.String("providers-dir", "", "directory of AmountProvider manifests")
	flags.Bool("builtins", true, "register moneta.Money and moneta.FastMoney")
	flags.String("default-amount-type", "", "amount type returned when a query names no requirements")
	flags.String("version-constraint", "", "only register manifest providers whose version satisfies this range")

	_ = viper.BindPFlag(config.KeyProvidersDir, flags.Lookup("providers-dir"))
	_ = viper.BindPFlag(config.KeyProvidersBuiltins, flags.Lookup("builtins"))
	_ = viper.BindPFlag(config.KeyDefaultAmountClass, flags.Lookup("default-amount-type"))
	_ = viper.BindPFlag(config.KeyProvidersVersionConstraint, flags.Lookup("version-constraint"))
}

func initConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = newLogger(verbose, cmd.ErrOrStderr())
	return nil
}

// newLogger writes console-encoded logs to w. Info and above are shown by
// default; verbose also shows logr V(1).
func newLogger(verbose bool, w io.Writer) logr.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if verbose {
		// logr V(1) maps to zap level -1.
		level = zapcore.Level(-1)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zapr.NewLogger(zap.New(core))
}
