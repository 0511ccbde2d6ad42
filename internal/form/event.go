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

package form

import "fmt"

// Event is a single user edit of the form.
type Event interface {
	// Key is the preference key the event writes to.
	Key() string
	apply(State) (State, bool)
}

// SetPackage replaces the package name.
type SetPackage string

// SetClass replaces the class name.
type SetClass string

// SetAction replaces the action string. Blank is allowed.
type SetAction string

// AddFlag selects a flag from the catalog.
type AddFlag int

// RemoveFlag deselects a flag.
type RemoveFlag int

func (SetPackage) Key() string { return KeyPackageName }
func (SetClass) Key() string   { return KeyClassName }
func (SetAction) Key() string  { return KeyAction }
func (AddFlag) Key() string    { return KeySelectedFlags }
func (RemoveFlag) Key() string { return KeySelectedFlags }

func (e SetPackage) apply(s State) (State, bool) {
	if s.PackageName == string(e) {
		return s, false
	}
	s.PackageName = string(e)
	return s, true
}

func (e SetClass) apply(s State) (State, bool) {
	if s.ClassName == string(e) {
		return s, false
	}
	s.ClassName = string(e)
	return s, true
}

func (e SetAction) apply(s State) (State, bool) {
	if s.Action == string(e) {
		return s, false
	}
	s.Action = string(e)
	return s, true
}

func (e AddFlag) apply(s State) (State, bool) {
	if Contains(s.Flags, int(e)) {
		return s, false
	}
	s.Flags = Add(s.Flags, int(e))
	return s, true
}

func (e RemoveFlag) apply(s State) (State, bool) {
	if !Contains(s.Flags, int(e)) {
		return s, false
	}
	s.Flags = Remove(s.Flags, int(e))
	return s, true
}

// Apply returns the state after ev and whether anything changed.
// The input state is not modified.
func Apply(s State, ev Event) (State, bool) {
	next, changed := ev.apply(s.Clone())
	if !changed {
		return s, false
	}
	return next, true
}

// Persist writes the key touched by ev. Flag events rewrite the whole list.
func Persist(store Store, ev Event, s State) error {
	var value string
	switch ev.Key() {
	case KeyPackageName:
		value = s.PackageName
	case KeyClassName:
		value = s.ClassName
	case KeyAction:
		value = s.Action
	case KeySelectedFlags:
		value = EncodeFlags(s.Flags)
	default:
		return fmt.Errorf("unknown preference key %q", ev.Key())
	}
	if err := store.Set(ev.Key(), value); err != nil {
		return fmt.Errorf("saving %s: %w", ev.Key(), err)
	}
	return nil
}

// Session couples a form state with the store it writes through to.
type Session struct {
	state State
	store Store
}

// NewSession loads the form from store. rejected lists flag tokens that
// were discarded while loading.
func NewSession(store Store, defaults State) (*Session, []string, error) {
	st, rejected, err := Load(store, defaults)
	if err != nil {
		return nil, nil, err
	}
	return &Session{state: st, store: store}, rejected, nil
}

// State returns a copy of the current form.
func (s *Session) State() State { return s.state.Clone() }

// Dispatch applies ev and persists the result when it was accepted.
// The in-memory state advances even if the write fails.
func (s *Session) Dispatch(ev Event) (bool, error) {
	next, changed := Apply(s.state, ev)
	if !changed {
		return false, nil
	}
	s.state = next
	return true, Persist(s.store, ev, next)
}
