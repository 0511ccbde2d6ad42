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
	"os"
	"testing"
	"time"

	"github.com/cloud-exit/intentkit/internal/config"
)

func withConfigHome(t *testing.T) {
	t.Helper()
	old := config.Home
	config.Home = t.TempDir()
	t.Cleanup(func() { config.Home = old })
}

func TestInitConfig(t *testing.T) {
	withConfigHome(t)

	written, err := initConfig(false)
	if err != nil || !written {
		t.Fatalf("initConfig = %v, %v; want written", written, err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Toast() != config.DefaultToastDuration {
		t.Errorf("Toast() = %v", cfg.Toast())
	}

	if err := os.WriteFile(config.ConfigFile(), []byte("settings:\n  toast_duration: 5s\n"), 0644); err != nil {
		t.Fatal(err)
	}
	written, err = initConfig(false)
	if err != nil || written {
		t.Fatalf("second initConfig = %v, %v; want untouched", written, err)
	}
	if cfg, _ := config.LoadConfig(); cfg.Toast() != 5*time.Second {
		t.Errorf("existing config overwritten: Toast() = %v", cfg.Toast())
	}

	if written, err = initConfig(true); err != nil || !written {
		t.Fatalf("forced initConfig = %v, %v", written, err)
	}
	if cfg, _ := config.LoadConfig(); cfg.Toast() != config.DefaultToastDuration {
		t.Errorf("forced init kept old value: Toast() = %v", cfg.Toast())
	}
}
