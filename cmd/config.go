// IntentKit - Explicit Intent Launcher
// Copyright (C) 2026 Cloud Exit B.V.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"

	"github.com/cloud-exit/intentkit/internal/config"
	"github.com/cloud-exit/intentkit/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfig writes the default config.yaml. An existing file is replaced
// only when force is set.
func initConfig(force bool) (bool, error) {
	if !force {
		return config.WriteDefaults()
	}
	if err := config.SaveConfig(config.DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.yaml",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			written, err := initConfig(force)
			if err != nil {
				ui.Errorf("Failed to write config: %v", err)
			}
			if !written {
				ui.Infof("Config already exists at %s (use --force to overwrite)", config.ConfigFile())
				return
			}
			ui.Successf("Wrote %s", config.ConfigFile())
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config.yaml location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.ConfigFile())
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !config.ConfigExists() {
				ui.Debug("no config.yaml; showing defaults")
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				ui.Errorf("Failed to encode config: %v", err)
			}
			fmt.Print(string(data))
		},
	}

	cmd.AddCommand(initCmd, pathCmd, showCmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
