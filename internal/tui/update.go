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
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloud-exit/intentkit/internal/form"
	"github.com/cloud-exit/intentkit/internal/launcher"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case launchDoneMsg:
		m.launching = false
		if msg.failed {
			return m.showToast(msg.failure, true)
		}
		// Success is silent.
		return m, nil

	case noticeMsg:
		return m.showToast(msg.text, true)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case "esc":
			if m.dropdownOpen {
				m.dropdownOpen = false
				return m, nil
			}
			m.quit = true
			return m, tea.Quit
		case "ctrl+l":
			return m.launch()
		case "tab":
			return m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab":
			return m.setFocus((m.focus + focusCount - 1) % focusCount)
		}

		switch m.focus {
		case focusPackage, focusClass, focusAction:
			return m.updateInput(msg)
		case focusSelector:
			return m.updateSelector(msg)
		case focusSelected:
			return m.updateSelected(msg)
		case focusLaunch:
			return m.updateLaunch(msg)
		}
	}

	if m.focus <= focusAction {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) setFocus(f focus) (tea.Model, tea.Cmd) {
	m.dropdownOpen = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	if f <= focusAction {
		return m, m.inputs[f].Focus()
	}
	if f == focusSelected {
		m.selectedCursor = clamp(m.selectedCursor, len(m.State().Flags))
	}
	return m, nil
}

func (m Model) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter", "down":
		return m.setFocus(m.focus + 1)
	case "up":
		if m.focus > focusPackage {
			return m.setFocus(m.focus - 1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	value := m.inputs[m.focus].Value()

	var ev form.Event
	switch m.focus {
	case focusPackage:
		ev = form.SetPackage(value)
	case focusClass:
		ev = form.SetClass(value)
	default:
		ev = form.SetAction(value)
	}
	m, toastCmd := m.dispatch(ev)
	return m, tea.Batch(cmd, toastCmd)
}

func (m Model) updateSelector(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.dropdownOpen {
		switch key.String() {
		case "enter", " ":
			m.dropdownOpen = true
			m.dropdownCursor = 0
		case "down":
			return m.setFocus(focusSelected)
		case "up":
			return m.setFocus(focusAction)
		}
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.dropdownCursor > 0 {
			m.dropdownCursor--
		}
	case "down", "j":
		if m.dropdownCursor < len(m.catalog)-1 {
			m.dropdownCursor++
		}
	case "enter", " ":
		m.dropdownOpen = false
		m, cmd := m.dispatch(form.AddFlag(m.catalog[m.dropdownCursor].Value))
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSelected(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	flags := m.State().Flags
	switch key.String() {
	case "up", "k":
		if m.selectedCursor == 0 || len(flags) == 0 {
			return m.setFocus(focusSelector)
		}
		m.selectedCursor--
	case "down", "j":
		if m.selectedCursor >= len(flags)-1 {
			return m.setFocus(focusLaunch)
		}
		m.selectedCursor++
	case "x", "d", "delete", "backspace":
		if len(flags) == 0 {
			return m, nil
		}
		m, cmd := m.dispatch(form.RemoveFlag(flags[m.selectedCursor]))
		m.selectedCursor = clamp(m.selectedCursor, len(m.State().Flags))
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLaunch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter", " ":
		return m.launch()
	case "up":
		return m.setFocus(focusSelected)
	}
	return m, nil
}

// dispatch applies ev to the session. A failed write is surfaced as a toast;
// the edit itself is kept.
func (m Model) dispatch(ev form.Event) (Model, tea.Cmd) {
	if _, err := m.session.Dispatch(ev); err != nil {
		next, cmd := m.showToast(err.Error(), true)
		return next.(Model), cmd
	}
	return m, nil
}

func (m Model) launch() (tea.Model, tea.Cmd) {
	if m.launching {
		return m, nil
	}
	m.launching = true
	target := launcher.TargetFrom(m.State())
	d := m.dispatcher
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), launchTimeout)
		defer cancel()

		var done launchDoneMsg
		launcher.Launch(ctx, d, launcher.NotifyFunc(func(msg string) {
			done.failed = true
			done.failure = msg
		}), target)
		return done
	}
}

func (m Model) showToast(text string, isErr bool) (tea.Model, tea.Cmd) {
	if text == "" {
		text = "launch failed"
	}
	m.toastID++
	m.toast = text
	m.toastErr = isErr
	id := m.toastID
	return m, tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Run shows the form until the user quits.
func Run(sess *form.Session, d launcher.Dispatcher, opts Options) error {
	p := tea.NewProgram(NewModel(sess, d, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}
