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
	"context"
	"fmt"
	"time"

	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/intentflag"
	"github.com/cloud-exit/intentkit/internal/launcher"
	"github.com/cloud-exit/intentkit/internal/ui"
	"github.com/spf13/cobra"
)

const launchTimeout = 15 * time.Second

// launchOverrides holds the fields given on the command line. nil means
// "keep the saved value".
type launchOverrides struct {
	PackageName *string
	ClassName   *string
	Action      *string
	Flags       []string // replaces the saved selection when non-nil
}

// overrideEvents turns overrides into form events against st.
func overrideEvents(st form.State, o launchOverrides) ([]form.Event, error) {
	var evs []form.Event
	if o.PackageName != nil {
		evs = append(evs, form.SetPackage(*o.PackageName))
	}
	if o.ClassName != nil {
		evs = append(evs, form.SetClass(*o.ClassName))
	}
	if o.Action != nil {
		evs = append(evs, form.SetAction(*o.Action))
	}
	if o.Flags != nil {
		var flags []int
		for _, name := range o.Flags {
			v, err := intentflag.Parse(name)
			if err != nil {
				return nil, err
			}
			flags = form.Add(flags, v)
		}
		for _, f := range st.Flags {
			evs = append(evs, form.RemoveFlag(f))
		}
		for _, f := range flags {
			evs = append(evs, form.AddFlag(f))
		}
	}
	return evs, nil
}

func newLaunchCmd() *cobra.Command {
	var (
		pkg, class, action string
		flagNames          []string
		noSave             bool
	)
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Fire the saved intent, optionally overriding fields",
		Long: `Launch the saved explicit-component intent on the connected device.

Fields given as options replace the saved ones and are remembered for next
time unless --no-save is set. A failed launch prints a warning; it is not
treated as a command error.`,
		Example: `  intentkit launch
  intentkit launch --package com.android.settings --class com.android.settings.Settings
  intentkit launch -a android.intent.action.VIEW --flag new_task --flag clear_top`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var o launchOverrides
			if cmd.Flags().Changed("package") {
				o.PackageName = &pkg
			}
			if cmd.Flags().Changed("class") {
				o.ClassName = &class
			}
			if cmd.Flags().Changed("action") {
				o.Action = &action
			}
			if cmd.Flags().Changed("flag") {
				o.Flags = append([]string{}, flagNames...)
			}

			store := openPrefs(profileFlag(cmd))
			defer closePrefs(store)

			sess, warning := loadSession(store)
			if warning != "" {
				ui.Warn(warning)
			}

			evs, err := overrideEvents(sess.State(), o)
			if err != nil {
				return err
			}
			st := sess.State()
			for _, ev := range evs {
				if noSave {
					st, _ = form.Apply(st, ev)
					continue
				}
				if _, err := sess.Dispatch(ev); err != nil {
					ui.Warnf("Failed to save %s: %v", ev.Key(), err)
				}
				st = sess.State()
			}

			toast := &ui.Toast{}
			d := dispatcher(cmd)

			target := launcher.TargetFrom(st)
			ui.Debugf("am start %v", launcher.Build(target).Args())

			ctx, cancel := context.WithTimeout(cmd.Context(), launchTimeout)
			defer cancel()
			launcher.Launch(ctx, d, toast, target)

			if toast.Shown == 0 {
				ui.Debugf("started %s", launcher.Build(target).Component())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "", "Target package name")
	cmd.Flags().StringVar(&class, "class", "", "Target activity class name")
	cmd.Flags().StringVarP(&action, "action", "a", "", "Intent action (blank for none)")
	cmd.Flags().StringSliceVarP(&flagNames, "flag", "f", nil, "Intent flag by name or value (repeatable; replaces the saved flags)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not remember the overrides")
	cmd.RegisterFlagCompletionFunc("flag", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, d := range intentflag.Catalog() {
			names = append(names, d.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newFlagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "List the known intent flags",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, d := range intentflag.Catalog() {
				fmt.Printf("%-28s %s  %d\n", d.Name, intentflag.Hex(d.Value), d.Value)
			}
		},
	}
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List attached devices",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			adb := dispatcher(cmd)
			devices, err := adb.Devices(cmd.Context())
			if err != nil {
				ui.Errorf("%v", err)
			}
			if len(devices) == 0 {
				ui.Info("No devices attached")
				return
			}
			for _, d := range devices {
				marker := " "
				if d.Serial == adb.Serial {
					marker = "*"
				}
				fmt.Printf("%s %-24s %s\n", marker, d.Serial, d.State)
			}
		},
	}
}

func init() {
	rootCmd.AddCommand(newLaunchCmd())
	rootCmd.AddCommand(newFlagsCmd())
	rootCmd.AddCommand(newDevicesCmd())
}
