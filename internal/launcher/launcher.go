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

// Package launcher builds explicit-component intents and dispatches them
// to a device.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/intentflag"
)

// Target is the user's launch request, taken from the form at launch time.
type Target struct {
	PackageName string
	ClassName   string
	Action      string // blank means no action
	Flags       []int
}

// TargetFrom snapshots the form.
func TargetFrom(st form.State) Target {
	return Target{
		PackageName: st.PackageName,
		ClassName:   st.ClassName,
		Action:      st.Action,
		Flags:       append([]int(nil), st.Flags...),
	}
}

// Intent is an explicit-component start request.
type Intent struct {
	Package string
	Class   string
	Action  string // empty when the intent carries no action
	Flags   int
}

// Build turns a target into an intent. The action is attached only when it
// is not blank; flags are OR'd together.
func Build(t Target) Intent {
	in := Intent{
		Package: t.PackageName,
		Class:   t.ClassName,
		Flags:   intentflag.Mask(t.Flags),
	}
	if strings.TrimSpace(t.Action) != "" {
		in.Action = t.Action
	}
	return in
}

// Component returns the pkg/cls form used by am.
func (in Intent) Component() string {
	return in.Package + "/" + in.Class
}

// Args returns the `am start` arguments for the intent.
func (in Intent) Args() []string {
	args := []string{"-n", in.Component()}
	if in.Action != "" {
		args = append(args, "-a", in.Action)
	}
	if in.Flags != 0 {
		args = append(args, "-f", intentflag.Hex(in.Flags))
	}
	return args
}

// ErrBlankComponent is returned by Validate for a missing package or class.
var ErrBlankComponent = errors.New("package name and class name are required")

// Validate checks that the target names a component.
func Validate(t Target) error {
	if strings.TrimSpace(t.PackageName) == "" || strings.TrimSpace(t.ClassName) == "" {
		return ErrBlankComponent
	}
	return nil
}

// Dispatcher starts an intent on a device.
type Dispatcher interface {
	Name() string
	Start(ctx context.Context, in Intent) error
}

// Notifier shows a short-lived message to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }

// Launch builds the intent for t and dispatches it once. Failures, including
// a panicking dispatcher, are reported through n and never returned.
func Launch(ctx context.Context, d Dispatcher, n Notifier, t Target) {
	defer func() {
		if r := recover(); r != nil {
			n.Notify(fmt.Sprint(r))
		}
	}()

	if err := Validate(t); err != nil {
		n.Notify(err.Error())
		return
	}
	if err := d.Start(ctx, Build(t)); err != nil {
		n.Notify(err.Error())
	}
}
