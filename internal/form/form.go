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

// Package form holds the launch form state, its update function, and the
// key-value encoding used to persist it between runs.
package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Preference keys.
const (
	KeyPackageName   = "packageName"
	KeyClassName     = "className"
	KeyAction        = "action"
	KeySelectedFlags = "selectedFlags"
)

// Store is the string key-value capability the form persists into.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// State is the in-memory form.
type State struct {
	PackageName string
	ClassName   string
	Action      string
	Flags       []int // insertion order, no duplicates
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	if s.Flags != nil {
		c.Flags = append([]int(nil), s.Flags...)
	}
	return c
}

// DefaultState is the form shown on first run.
func DefaultState() State {
	return State{
		PackageName: "com.example.app",
		ClassName:   "com.example.app.MainActivity",
	}
}

// Contains reports whether f is in flags.
func Contains(flags []int, f int) bool {
	for _, v := range flags {
		if v == f {
			return true
		}
	}
	return false
}

// Add appends f unless it is already present. The input is never modified.
func Add(flags []int, f int) []int {
	out := append([]int(nil), flags...)
	if Contains(flags, f) {
		return out
	}
	return append(out, f)
}

// Remove drops the first occurrence of f. The input is never modified.
func Remove(flags []int, f int) []int {
	out := make([]int, 0, len(flags))
	removed := false
	for _, v := range flags {
		if !removed && v == f {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out
}

// EncodeFlags joins flags as comma-separated decimal integers.
func EncodeFlags(flags []int) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ",")
}

// DecodeFlags parses the output of EncodeFlags. Tokens that are not 32-bit
// integers, and repeats of an earlier token, are dropped and returned in
// rejected.
func DecodeFlags(s string) (flags []int, rejected []string) {
	flags = []int{}
	if s == "" {
		return flags, nil
	}
	for _, tok := range strings.Split(s, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 32)
		v := int(n)
		if err != nil || Contains(flags, v) {
			rejected = append(rejected, tok)
			continue
		}
		flags = append(flags, v)
	}
	return flags, rejected
}

// Load reads the form from store, using defaults for keys never written.
// rejected lists persisted flag tokens that could not be restored.
func Load(store Store, defaults State) (st State, rejected []string, err error) {
	st = defaults.Clone()
	if st.Flags == nil {
		st.Flags = []int{}
	}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyPackageName, &st.PackageName},
		{KeyClassName, &st.ClassName},
		{KeyAction, &st.Action},
	} {
		v, ok, err := store.Get(f.key)
		if err != nil {
			return State{}, nil, fmt.Errorf("loading %s: %w", f.key, err)
		}
		if ok {
			*f.dst = v
		}
	}

	raw, ok, err := store.Get(KeySelectedFlags)
	if err != nil {
		return State{}, nil, fmt.Errorf("loading %s: %w", KeySelectedFlags, err)
	}
	if ok {
		st.Flags, rejected = DecodeFlags(raw)
	}
	return st, rejected, nil
}
