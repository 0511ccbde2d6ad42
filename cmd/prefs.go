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

	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/ui"
	"github.com/spf13/cobra"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or edit saved form values",
		Long: `Low-level access to a profile's preference store.

Keys used by the launch form: packageName, className, action, selectedFlags.`,
	}

	cmd.AddCommand(newPrefsGetCmd())
	cmd.AddCommand(newPrefsSetCmd())
	cmd.AddCommand(newPrefsListCmd())
	cmd.AddCommand(newPrefsDeleteCmd())
	cmd.AddCommand(newPrefsShowCmd())
	return cmd
}

func newPrefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a saved value",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := openPrefs(profileFlag(cmd))
			defer closePrefs(store)

			val, ok, err := store.Get(args[0])
			if err != nil {
				ui.Errorf("%v", err)
			}
			if !ok {
				ui.Errorf("key not found: %s", args[0])
			}
			fmt.Println(val)
		},
	}
}

func newPrefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Overwrite a saved value",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			profile := profileFlag(cmd)
			store := openPrefs(profile)
			defer closePrefs(store)

			if args[0] == form.KeySelectedFlags {
				if _, rejected := form.DecodeFlags(args[1]); len(rejected) > 0 {
					ui.Warnf("These tokens will be discarded on load: %v", rejected)
				}
			}
			if err := store.Set(args[0], args[1]); err != nil {
				ui.Errorf("Failed to set: %v", err)
			}
			ui.Successf("Set '%s' in profile '%s'", args[0], profile)
		},
	}
}

func newPrefsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [prefix]",
		Short:   "List saved keys and values",
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			profile := profileFlag(cmd)
			store := openPrefs(profile)
			defer closePrefs(store)

			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}

			count := 0
			err := store.Iterate(prefix, func(key, value string) error {
				fmt.Printf("%s = %s\n", key, value)
				count++
				return nil
			})
			if err != nil {
				ui.Errorf("Failed to list: %v", err)
			}
			if count == 0 {
				ui.Infof("No entries found in profile '%s'", profile)
			}
		},
	}
}

func newPrefsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Short:   "Forget a saved value",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			profile := profileFlag(cmd)
			store := openPrefs(profile)
			defer closePrefs(store)

			if err := store.Delete(args[0]); err != nil {
				ui.Errorf("Failed to delete: %v", err)
			}
			ui.Successf("Deleted '%s' from profile '%s'", args[0], profile)
		},
	}
}

func newPrefsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved launch target",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := openPrefs(profileFlag(cmd))
			defer closePrefs(store)

			sess, warning := loadSession(store)
			if warning != "" {
				ui.Warn(warning)
			}
			printTarget(sess.State())
		},
	}
}

func init() {
	rootCmd.AddCommand(newPrefsCmd())
}
