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

// Package tui is the interactive launch form.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloud-exit/intentkit/internal/config"
	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/intentflag"
	"github.com/cloud-exit/intentkit/internal/launcher"
)

// focus identifies the focused control, in tab order.
type focus int

const (
	focusPackage focus = iota
	focusClass
	focusAction
	focusSelector
	focusSelected
	focusLaunch
	focusCount
)

const launchTimeout = 15 * time.Second

// Options configures the form.
type Options struct {
	Profile       string
	Device        string // shown in the header; empty = default device
	ToastDuration time.Duration
	Warnings      []string // shown once on start, e.g. discarded preference tokens
}

// Model is the root bubbletea model for the launch form.
type Model struct {
	session    *form.Session
	dispatcher launcher.Dispatcher
	opts       Options

	inputs [3]textinput.Model
	focus  focus

	catalog        []intentflag.Descriptor
	dropdownOpen   bool
	dropdownCursor int
	selectedCursor int

	launching bool
	toast     string
	toastErr  bool
	toastID   int

	width  int
	height int
	quit   bool
}

// launchDoneMsg carries the outcome of one Launch.
type launchDoneMsg struct {
	failure string
	failed  bool
}

// noticeMsg raises an error toast that did not come from a launch.
type noticeMsg struct{ text string }

// toastExpiredMsg dismisses the toast with the matching id.
type toastExpiredMsg struct{ id int }

// NewModel builds the form around an already-loaded session.
func NewModel(sess *form.Session, d launcher.Dispatcher, opts Options) Model {
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = config.DefaultToastDuration
	}
	st := sess.State()

	labels := [3]string{"Package Name", "Class Name", "Action"}
	values := [3]string{st.PackageName, st.ClassName, st.Action}
	var inputs [3]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = labels[i]
		ti.CharLimit = 256
		ti.Width = 60
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[focusAction].Placeholder = "(none)"
	inputs[focusPackage].Focus()

	return Model{
		session:    sess,
		dispatcher: d,
		opts:       opts,
		inputs:     inputs,
		focus:      focusPackage,
		catalog:    intentflag.Catalog(),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if len(m.opts.Warnings) > 0 {
		cmds = append(cmds, func() tea.Msg {
			return noticeMsg{text: m.opts.Warnings[0]}
		})
	}
	return tea.Batch(cmds...)
}

// State returns the current form.
func (m Model) State() form.State { return m.session.State() }

// Toast returns the visible message, if any.
func (m Model) Toast() string { return m.toast }

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool { return m.quit }
