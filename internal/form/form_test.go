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

import (
	"errors"
	"reflect"
	"testing"
)

// mapStore implements Store for testing.
type mapStore struct {
	values map[string]string
	writes []string
	getErr error
	setErr error
}

func newMapStore() *mapStore {
	return &mapStore{values: make(map[string]string)}
}

func (m *mapStore) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStore) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.writes = append(m.writes, key)
	return nil
}

var _ Store = (*mapStore)(nil)

func TestAdd_Idempotent(t *testing.T) {
	once := Add([]int{1, 2}, 3)
	twice := Add(once, 3)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Add twice = %v, want %v", twice, once)
	}
	if !reflect.DeepEqual(once, []int{1, 2, 3}) {
		t.Errorf("Add = %v, want [1 2 3]", once)
	}
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	in := make([]int, 2, 8)
	in[0], in[1] = 1, 2
	_ = Add(in, 3)
	if len(in) != 2 || in[:3][2] != 0 {
		t.Errorf("Add mutated its input: %v", in[:3])
	}
}

func TestRemove_AfterAddRestores(t *testing.T) {
	tests := [][]int{
		{},
		{4},
		{4, 8, 16},
	}
	for _, before := range tests {
		got := Remove(Add(before, 99), 99)
		if !reflect.DeepEqual(got, before) {
			t.Errorf("Remove(Add(%v, 99), 99) = %v", before, got)
		}
	}
}

func TestRemove_PreservesOrder(t *testing.T) {
	got := Remove([]int{1, 2, 3, 4}, 2)
	if !reflect.DeepEqual(got, []int{1, 3, 4}) {
		t.Errorf("Remove = %v, want [1 3 4]", got)
	}
}

func TestRemove_Absent(t *testing.T) {
	got := Remove([]int{1, 2}, 7)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Remove absent = %v, want [1 2]", got)
	}
}

func TestFlagsRoundTrip(t *testing.T) {
	tests := [][]int{
		{},
		{268435456},
		{268435456, 32768, 536870912, 67108864},
		{-5, 0, 42},
	}
	for _, flags := range tests {
		enc := EncodeFlags(flags)
		dec, rejected := DecodeFlags(enc)
		if len(rejected) != 0 {
			t.Errorf("DecodeFlags(%q) rejected %v", enc, rejected)
		}
		if !reflect.DeepEqual(dec, flags) {
			t.Errorf("round trip %v -> %q -> %v", flags, enc, dec)
		}
	}
}

func TestEncodeFlags_Empty(t *testing.T) {
	if got := EncodeFlags(nil); got != "" {
		t.Errorf("EncodeFlags(nil) = %q, want empty", got)
	}
	if got := EncodeFlags([]int{268435456, 32768}); got != "268435456,32768" {
		t.Errorf("EncodeFlags = %q", got)
	}
}

func TestDecodeFlags_DropsMalformed(t *testing.T) {
	flags, rejected := DecodeFlags("268435456,abc,,32768,268435456")
	if !reflect.DeepEqual(flags, []int{268435456, 32768}) {
		t.Errorf("flags = %v", flags)
	}
	if !reflect.DeepEqual(rejected, []string{"abc", "", "268435456"}) {
		t.Errorf("rejected = %q", rejected)
	}
}

func TestDecodeFlags_DropsOutOfRange(t *testing.T) {
	flags, rejected := DecodeFlags("4294967296,-2147483648,268435456")
	if !reflect.DeepEqual(flags, []int{-2147483648, 268435456}) {
		t.Errorf("flags = %v", flags)
	}
	if !reflect.DeepEqual(rejected, []string{"4294967296"}) {
		t.Errorf("rejected = %q", rejected)
	}
}

func TestLoad_Defaults(t *testing.T) {
	st, rejected, err := Load(newMapStore(), DefaultState())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rejected != nil {
		t.Errorf("rejected = %v, want nil", rejected)
	}
	if st.PackageName != "com.example.app" || st.ClassName != "com.example.app.MainActivity" {
		t.Errorf("unexpected defaults: %+v", st)
	}
	if st.Action != "" || len(st.Flags) != 0 {
		t.Errorf("unexpected defaults: %+v", st)
	}
}

func TestLoad_StoredValues(t *testing.T) {
	s := newMapStore()
	s.values[KeyPackageName] = "org.test"
	s.values[KeyClassName] = "org.test.Home"
	s.values[KeyAction] = ""
	s.values[KeySelectedFlags] = "32768,nope"

	st, rejected, err := Load(s, State{Action: "preset"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.PackageName != "org.test" || st.ClassName != "org.test.Home" {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.Action != "" {
		t.Errorf("stored empty action should override default, got %q", st.Action)
	}
	if !reflect.DeepEqual(st.Flags, []int{32768}) {
		t.Errorf("Flags = %v", st.Flags)
	}
	if !reflect.DeepEqual(rejected, []string{"nope"}) {
		t.Errorf("rejected = %v", rejected)
	}
}

func TestLoad_StoreError(t *testing.T) {
	s := newMapStore()
	s.getErr = errors.New("boom")
	if _, _, err := Load(s, DefaultState()); err == nil {
		t.Error("expected error from failing store")
	}
}

func TestApply_RejectsNoops(t *testing.T) {
	st := State{PackageName: "a", Flags: []int{1}}
	tests := []struct {
		name string
		ev   Event
	}{
		{"same package", SetPackage("a")},
		{"duplicate flag", AddFlag(1)},
		{"absent flag", RemoveFlag(2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, changed := Apply(st, tc.ev); changed {
				t.Errorf("Apply(%v) reported a change", tc.ev)
			}
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	st := State{Flags: []int{1, 2}}
	next, changed := Apply(st, RemoveFlag(1))
	if !changed {
		t.Fatal("expected change")
	}
	if !reflect.DeepEqual(st.Flags, []int{1, 2}) {
		t.Errorf("input mutated: %v", st.Flags)
	}
	if !reflect.DeepEqual(next.Flags, []int{2}) {
		t.Errorf("next.Flags = %v", next.Flags)
	}
}

func TestSession_WriteThrough(t *testing.T) {
	store := newMapStore()
	sess, _, err := NewSession(store, DefaultState())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	steps := []struct {
		ev      Event
		changed bool
	}{
		{SetPackage("com.android.settings"), true},
		{SetClass("com.android.settings.Settings"), true},
		{SetAction("android.intent.action.VIEW"), true},
		{AddFlag(268435456), true},
		{AddFlag(268435456), false},
		{AddFlag(67108864), true},
		{RemoveFlag(268435456), true},
		{RemoveFlag(268435456), false},
	}
	for _, s := range steps {
		changed, err := sess.Dispatch(s.ev)
		if err != nil {
			t.Fatalf("Dispatch(%v): %v", s.ev, err)
		}
		if changed != s.changed {
			t.Errorf("Dispatch(%v) changed = %v, want %v", s.ev, changed, s.changed)
		}
	}

	wantWrites := []string{
		KeyPackageName, KeyClassName, KeyAction,
		KeySelectedFlags, KeySelectedFlags, KeySelectedFlags,
	}
	if !reflect.DeepEqual(store.writes, wantWrites) {
		t.Errorf("writes = %v, want %v", store.writes, wantWrites)
	}
	if store.values[KeySelectedFlags] != "67108864" {
		t.Errorf("selectedFlags = %q", store.values[KeySelectedFlags])
	}

	reloaded, _, err := NewSession(store, State{})
	if err != nil {
		t.Fatalf("NewSession reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded.State(), sess.State()) {
		t.Errorf("reloaded %+v, want %+v", reloaded.State(), sess.State())
	}
}

func TestSession_PersistError(t *testing.T) {
	store := newMapStore()
	sess, _, err := NewSession(store, DefaultState())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	store.setErr = errors.New("disk full")

	changed, err := sess.Dispatch(SetAction("x"))
	if !changed {
		t.Error("expected change")
	}
	if err == nil {
		t.Error("expected persist error")
	}
	if sess.State().Action != "x" {
		t.Errorf("Action = %q, want in-memory state to advance", sess.State().Action)
	}
}
