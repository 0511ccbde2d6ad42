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

package tui

import (
	"fmt"
	"strings"

	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/intentflag"
)

func (m Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder

	header := "IntentKit"
	if m.opts.Profile != "" {
		header += " · profile " + m.opts.Profile
	}
	if m.dispatcher != nil {
		target := m.dispatcher.Name()
		if m.opts.Device != "" {
			target += " (" + m.opts.Device + ")"
		}
		header += " · " + target
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	labels := [3]string{"Package Name", "Class Name", "Action"}
	for i := range m.inputs {
		b.WriteString(m.viewInput(focus(i), labels[i]))
		b.WriteString("\n")
	}

	b.WriteString(m.viewSelector())
	b.WriteString("\n")
	b.WriteString(m.viewSelected())
	b.WriteString("\n")

	button := buttonStyle
	if m.focus == focusLaunch {
		button = focusedButtonStyle
	}
	label := "Launch Intent"
	if m.launching {
		label = "Launching..."
	}
	b.WriteString(button.Render(label))
	b.WriteString("\n")

	if m.toast != "" {
		b.WriteString("\n")
		if m.toastErr {
			b.WriteString(toastErrStyle.Render(m.toast))
		} else {
			b.WriteString(toastOKStyle.Render(m.toast))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) viewInput(f focus, label string) string {
	ls, fs := labelStyle, fieldStyle
	if m.focus == f {
		ls, fs = focusedLabelStyle, focusedFieldStyle
	}
	w := m.fieldWidth()
	return ls.Render(label) + "\n" + fs.Width(w).Render(m.inputs[f].View())
}

func (m Model) viewSelector() string {
	var b strings.Builder
	fs := fieldStyle
	if m.focus == focusSelector {
		fs = focusedFieldStyle
	}
	arrow := "▾"
	if m.dropdownOpen {
		arrow = "▴"
	}
	b.WriteString(fs.Width(m.fieldWidth()).Render("Add Intent Flag " + arrow))
	b.WriteString("\n")

	if m.dropdownOpen {
		selected := m.State().Flags
		for i, d := range m.catalog {
			cursor := "  "
			name := d.Name
			if i == m.dropdownCursor {
				cursor = cursorStyle.Render("> ")
				name = cursorStyle.Render(name)
			}
			mark := "   "
			if form.Contains(selected, d.Value) {
				mark = selectedStyle.Render(" ✓ ")
			}
			b.WriteString(fmt.Sprintf("%s%s%s\n", cursor, name, mark))
		}
	}
	return b.String()
}

func (m Model) viewSelected() string {
	var b strings.Builder
	ls := labelStyle
	if m.focus == focusSelected {
		ls = focusedLabelStyle
	}
	b.WriteString(ls.Render("Selected flags"))
	b.WriteString("\n")

	flags := m.State().Flags
	if len(flags) == 0 {
		b.WriteString(dimStyle.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}
	for i, f := range flags {
		cursor := "  "
		name := intentflag.Name(f)
		if m.focus == focusSelected && i == m.selectedCursor {
			cursor = cursorStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s%-28s %s\n", cursor, name, dimStyle.Render("✕")))
	}
	return b.String()
}

func (m Model) helpLine() string {
	switch {
	case m.dropdownOpen:
		return "↑/↓ choose, Enter to add, Esc to close"
	case m.focus == focusSelected:
		return "x to remove, Tab: next, Ctrl+L: launch, Esc: quit"
	case m.focus == focusSelector:
		return "Enter to open, Tab: next, Ctrl+L: launch, Esc: quit"
	default:
		return "Tab/Shift+Tab to move, Ctrl+L: launch, Esc: quit"
	}
}

func (m Model) fieldWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
