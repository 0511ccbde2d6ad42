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
	"os"
	"strings"

	"github.com/cloud-exit/intentkit/internal/config"
	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/intentflag"
	"github.com/cloud-exit/intentkit/internal/launcher"
	"github.com/cloud-exit/intentkit/internal/prefs"
	"github.com/cloud-exit/intentkit/internal/tui"
	"github.com/cloud-exit/intentkit/internal/ui"
	"github.com/spf13/cobra"
)

// Version is set by ldflags at build time.
var Version = "0.3.0"

// cfg is loaded once per invocation in PersistentPreRunE.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "intentkit",
	Short: "Build and fire explicit Android intents",
	Long:  "IntentKit – Launch an explicit-component intent on a connected device and remember the last target",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.Flags().GetBool("verbose")
		ui.Verbose = v
		cfg = config.LoadOrDefault()
		ui.Debugf("config: %s", config.ConfigFile())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("intentkit version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "Preference profile (default from config.yaml)")
	rootCmd.PersistentFlags().StringP("serial", "s", "", "Target device serial (adb -s)")

	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate("intentkit version {{.Version}}\n")
	rootCmd.Version = Version
}

// Execute runs the root command.
func Execute() {
	config.EnsureDirs()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func profileFlag(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		return p
	}
	return cfg.Profile()
}

func openPrefs(profile string) *prefs.Store {
	store, err := prefs.Open(prefs.Options{Dir: config.PrefsDir(profile)})
	if err != nil {
		if prefs.IsLocked(err) {
			ui.Errorf("Preferences for profile '%s' are in use by another intentkit process.", profile)
		}
		ui.Errorf("Failed to open preferences: %v", err)
	}
	return store
}

func closePrefs(store *prefs.Store) {
	if err := store.Close(); err != nil {
		ui.Warnf("Failed to close preferences: %v", err)
	}
}

// loadSession restores the form and reports tokens that could not be read.
func loadSession(store *prefs.Store) (*form.Session, string) {
	sess, rejected, err := form.NewSession(store, cfg.FormDefaults())
	if err != nil {
		ui.Errorf("Failed to load saved form: %v", err)
	}
	var warning string
	if len(rejected) > 0 {
		warning = fmt.Sprintf("Discarded unreadable saved flags: %s", strings.Join(rejected, ", "))
		ui.Debug(warning)
	}
	return sess, warning
}

// dispatcher returns the adb dispatcher for this invocation. A missing adb
// binary is not fatal while the adb server is already running.
func dispatcher(cmd *cobra.Command) *launcher.ADB {
	adb := &launcher.ADB{
		Host:   cfg.ADB.Host,
		Port:   cfg.ADB.Port,
		Serial: cfg.ADB.Serial,
	}
	if s, _ := cmd.Flags().GetString("serial"); s != "" {
		adb.Serial = s
	}
	if p, err := launcher.Detect(cfg.ADB.Path); err == nil {
		adb.Path = p
	} else {
		ui.Debugf("%v", err)
	}
	ui.Debugf("adb: server %s:%d, binary %q, serial %q", cfg.ADB.Host, cfg.ADB.Port, adb.Path, adb.Serial)
	return adb
}

func runForm(cmd *cobra.Command) error {
	profile := profileFlag(cmd)
	store := openPrefs(profile)
	defer closePrefs(store)

	sess, warning := loadSession(store)

	if !ui.IsInteractive() {
		if warning != "" {
			ui.Warn(warning)
		}
		printTarget(sess.State())
		ui.Info("Non-interactive terminal detected. Use 'intentkit launch' to fire the saved intent.")
		return nil
	}

	adb := dispatcher(cmd)
	opts := tui.Options{
		Profile:       profile,
		Device:        adb.Serial,
		ToastDuration: cfg.Toast(),
	}
	if warning != "" {
		opts.Warnings = []string{warning}
	}
	return tui.Run(sess, adb, opts)
}

func printTarget(st form.State) {
	action := st.Action
	if strings.TrimSpace(action) == "" {
		action = "(none)"
	}
	fmt.Printf("Package: %s\n", st.PackageName)
	fmt.Printf("Class:   %s\n", st.ClassName)
	fmt.Printf("Action:  %s\n", action)
	if len(st.Flags) == 0 {
		fmt.Println("Flags:   (none)")
		return
	}
	names := make([]string, len(st.Flags))
	for i, f := range st.Flags {
		names[i] = intentflag.Name(f)
	}
	fmt.Printf("Flags:   %s (%s)\n", strings.Join(names, " | "), intentflag.Hex(intentflag.Mask(st.Flags)))
}
