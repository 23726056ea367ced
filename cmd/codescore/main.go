package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/codescore/internal/config"
	"github.com/dshills/codescore/internal/logging"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	root := &cobra.Command{
		Use:           "codescore",
		Short:         "Score source code quality from static-analysis findings",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rf.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/codescore/config.yaml)")
	pf.BoolVar(&rf.verbose, "verbose", false, "Log processing steps to stderr")
	pf.BoolVar(&rf.debug, "debug", false, "Log debug detail to stderr")

	root.AddCommand(
		newAnalyzeCmd(rf),
		newScoreCmd(),
		newVerifyCmd(),
		newHistoryCmd(rf),
		newServeCmd(rf),
		newConfigCmd(rf),
		newProfilesCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig merges the config file, environment, and flag overrides.
func (rf *rootFlags) loadConfig(overrides map[string]string) (config.Config, error) {
	cfg, err := config.Load(rf.configPath, overrides)
	if err != nil {
		return config.Config{}, exitError(3, "failed to load config: %v", err)
	}
	return cfg, nil
}

func (rf *rootFlags) logger() (*zap.SugaredLogger, error) {
	log, err := logging.New(rf.debug, rf.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the codescore version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codescore %s\n", version)
		},
	}
}
