// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/librarium/librarium/internal/config"
	"github.com/librarium/librarium/internal/xdg"
)

// NewRootCmd creates the root command for the Librarium CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithDeps(nil)
}

func newRootCmdWithDeps(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "librarium",
		Short: "Librarium - credential and session service",
		Long: `Librarium manages user credentials, stateless session tokens and the
rate-limited password reset flow of the Librarium catalog backend.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path (YAML, default $XDG_CONFIG_HOME/librarium/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd(deps))
	cmd.AddCommand(NewMigrateCmd(deps))
	cmd.AddCommand(NewUserCmd(deps))

	return cmd
}

// loadConfig reads the configuration selected by the command's flags. Without
// --config the XDG config file is used when present.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("flag", "config").Wrap(err)
	}
	if path == "" {
		if path, err = xdg.FindConfigFile(); err != nil {
			return nil, err
		}
	}
	return config.Load(path, cmd.Flags())
}
