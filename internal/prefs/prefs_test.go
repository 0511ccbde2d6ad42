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

package prefs

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cloud-exit/intentkit/internal/form"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

var _ form.Store = (*Store)(nil)

func TestSetAndGet(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("packageName", "com.android.settings"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get("packageName")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != "com.android.settings" {
		t.Errorf("Get = (%q, %v), want (%q, true)", got, ok, "com.android.settings")
	}
}

func TestGet_MissingVersusEmpty(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("action")
	if err != nil {
		t.Fatalf("Get(missing): %v", err)
	}
	if ok {
		t.Error("Get(missing) reported ok")
	}

	if err := s.Set("action", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get("action")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != "" {
		t.Errorf("Get(empty) = (%q, %v), want (\"\", true)", got, ok)
	}
}

func TestGetBytesNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetBytes([]byte("missing"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBytes(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("className", "x.Y"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete("className"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("className"); ok {
		t.Error("key still present after Delete")
	}
}

func TestIterate(t *testing.T) {
	s := openTestStore(t)

	for _, kv := range []struct{ k, v string }{
		{"packageName", "a"},
		{"className", "b"},
		{"selectedFlags", "1,2"},
	} {
		if err := s.Set(kv.k, kv.v); err != nil {
			t.Fatalf("Set(%s): %v", kv.k, err)
		}
	}

	var keys []string
	if err := s.Iterate("", func(key, value string) error {
		keys = append(keys, key)
		return nil
	}); err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("Iterate returned %d keys, want 3: %v", len(keys), keys)
	}

	keys = nil
	if err := s.Iterate("sel", func(key, value string) error {
		keys = append(keys, key)
		return nil
	}); err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(keys) != 1 || keys[0] != "selectedFlags" {
		t.Errorf("Iterate(sel) = %v", keys)
	}
}

func TestIterateStopsOnError(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("b", "2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	stopErr := errors.New("stop")
	var count int
	err := s.Iterate("", func(key, value string) error {
		count++
		return stopErr
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Iterate error = %v, want stopErr", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (should stop after first)", count)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sess, _, err := form.NewSession(s, form.DefaultState())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for _, ev := range []form.Event{
		form.SetPackage("com.android.settings"),
		form.SetClass("com.android.settings.Settings"),
		form.AddFlag(0x10000000),
		form.AddFlag(0x04000000),
	} {
		if _, err := sess.Dispatch(ev); err != nil {
			t.Fatalf("Dispatch(%v): %v", ev, err)
		}
	}
	want := sess.State()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer func() {
		if err := s2.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	got, rejected, err := form.Load(s2, form.DefaultState())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rejected) != 0 {
		t.Errorf("rejected = %v", rejected)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded %+v, want %+v", got, want)
	}
	raw, _, _ := s2.Get(form.KeySelectedFlags)
	if raw != "268435456,67108864" {
		t.Errorf("selectedFlags = %q", raw)
	}
}

func TestIsLocked(t *testing.T) {
	if IsLocked(nil) {
		t.Error("IsLocked(nil) = true")
	}
	if !IsLocked(errors.New("Cannot acquire directory lock on \"/tmp/x\"")) {
		t.Error("IsLocked did not match lock error")
	}
}
