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

// Package config loads and saves intentkit's YAML configuration.
package config

import (
	"time"

	"github.com/cloud-exit/intentkit/internal/form"
)

// Config is the contents of config.yaml.
type Config struct {
	Version  int            `yaml:"version"`
	ADB      ADBConfig      `yaml:"adb"`
	Settings SettingsConfig `yaml:"settings"`
	Defaults FormDefaults   `yaml:"defaults"`
}

// ADBConfig selects the adb server and device.
type ADBConfig struct {
	Host   string `yaml:"host,omitempty"`   // adb server, empty = localhost
	Port   int    `yaml:"port,omitempty"`   // adb server, zero = 5037
	Path   string `yaml:"path,omitempty"`   // adb binary for start-server, empty = detect
	Serial string `yaml:"serial,omitempty"` // empty = the only attached device
}

type SettingsConfig struct {
	DefaultProfile string        `yaml:"default_profile,omitempty"`
	ToastDuration  time.Duration `yaml:"toast_duration,omitempty"`
}

// FormDefaults seeds the form for a profile that has never been saved.
type FormDefaults struct {
	PackageName string `yaml:"package_name,omitempty"`
	ClassName   string `yaml:"class_name,omitempty"`
}

// Profile returns the configured default profile, or "default".
func (c *Config) Profile() string {
	if c.Settings.DefaultProfile == "" {
		return "default"
	}
	return c.Settings.DefaultProfile
}

// Toast returns how long a launch message stays on screen.
func (c *Config) Toast() time.Duration {
	if c.Settings.ToastDuration <= 0 {
		return DefaultToastDuration
	}
	return c.Settings.ToastDuration
}

// FormDefaults returns the initial form, with configured overrides applied.
func (c *Config) FormDefaults() form.State {
	st := form.DefaultState()
	if c.Defaults.PackageName != "" {
		st.PackageName = c.Defaults.PackageName
	}
	if c.Defaults.ClassName != "" {
		st.ClassName = c.Defaults.ClassName
	}
	return st
}
