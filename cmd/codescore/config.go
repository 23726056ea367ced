package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/codescore/internal/config"
)

func newConfigCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage codescore configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rf.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s\n", path)
				return nil
			}
			if err := config.Save(path, config.Default()); err != nil {
				return exitError(3, "writing config: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rf.configFile()
			if err != nil {
				return err
			}
			cfg, err := config.LoadFile(path, config.Default())
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return exitError(3, "%v", err)
				}
				cfg = config.Default()
			}
			if err := config.SetField(&cfg, args[0], args[1]); err != nil {
				return exitError(3, "%v", err)
			}
			if err := cfg.Validate(); err != nil {
				return exitError(3, "%v", err)
			}
			if err := config.Save(path, cfg); err != nil {
				return exitError(3, "saving config: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.loadConfig(nil)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, setCmd, showCmd)
	return cmd
}

// configFile is the --config path or the default location.
func (rf *rootFlags) configFile() (string, error) {
	if rf.configPath != "" {
		return rf.configPath, nil
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "", exitError(3, "%v", err)
	}
	return path, nil
}
