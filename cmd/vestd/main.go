package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/vestd"
	vestdapp "github.com/iov-one/vestd/cmd/vestd/app"
	"github.com/iov-one/vestd/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagLogLevel = "log_level"

	defaultLogLevel = "*:info"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "vestd")

	root := &cobra.Command{
		Use:   "vestd",
		Short: "Vesting ledger and claim engine node",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(viper.GetString(flagHome)); err != nil {
				return err
			}
			// the logger is shared by reference with every subcommand
			filtered, err := flags.ParseLogLevel(viper.GetString(flagLogLevel), logger, defaultLogLevel)
			if err != nil {
				return err
			}
			logger = filtered
			return nil
		},
		SilenceUsage: true,
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".vestd")
	root.PersistentFlags().String(flagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().String(flagLogLevel, defaultLogLevel, "log level")
	for _, name := range []string{flagHome, flagLogLevel} {
		if err := viper.BindPFlag(name, root.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	lazy := lazyLogger{get: func() log.Logger { return logger }}
	root.AddCommand(
		server.InitCmd(vestdapp.GenInitOptions, lazy),
		server.StartCmd(vestdapp.GenerateApp, lazy),
		versionCmd(),
	)
	return root
}

// loadConfig reads an optional vestd.toml from the home directory. Values
// can also be provided as VESTD_* environment variables.
func loadConfig(home string) error {
	viper.SetEnvPrefix("vestd")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("vestd")
	viper.SetConfigType("toml")
	viper.AddConfigPath(filepath.Join(home, "config"))
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("cannot read config: %v", err)
		}
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), vestd.Version())
		},
	}
}

// lazyLogger resolves the logger at call time, once the log level flag
// has been parsed.
type lazyLogger struct {
	get func() log.Logger
}

func (l lazyLogger) Debug(msg string, keyvals ...interface{}) { l.get().Debug(msg, keyvals...) }
func (l lazyLogger) Info(msg string, keyvals ...interface{})  { l.get().Info(msg, keyvals...) }
func (l lazyLogger) Error(msg string, keyvals ...interface{}) { l.get().Error(msg, keyvals...) }
func (l lazyLogger) With(keyvals ...interface{}) log.Logger   { return l.get().With(keyvals...) }
