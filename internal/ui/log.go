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

package ui

import (
	"fmt"
	"io"
	"os"
)

// Verbose controls whether debug messages are printed.
var Verbose bool

// Output sinks. Tests swap these out.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	exit             = os.Exit
)

func line(w io.Writer, color, tag, msg string) {
	fmt.Fprintf(w, "%s[%s]%s %s\n", color, tag, NC, msg)
}

// Info prints an informational message to stdout.
func Info(msg string) { line(Stdout, Cyan, "INFO", msg) }

// Infof prints a formatted informational message to stdout.
func Infof(format string, a ...any) { Info(fmt.Sprintf(format, a...)) }

// Success prints a success message to stdout.
func Success(msg string) { line(Stdout, Green, "OK", msg) }

// Successf prints a formatted success message to stdout.
func Successf(format string, a ...any) { Success(fmt.Sprintf(format, a...)) }

// Warn prints a warning message to stderr.
func Warn(msg string) { line(Stderr, Yellow, "WARN", msg) }

// Warnf prints a formatted warning message to stderr.
func Warnf(format string, a ...any) { Warn(fmt.Sprintf(format, a...)) }

// Error prints an error message to stderr and exits with code 1.
func Error(msg string) {
	line(Stderr, Red, "ERROR", msg)
	exit(1)
}

// Errorf prints a formatted error message to stderr and exits with code 1.
func Errorf(format string, a ...any) { Error(fmt.Sprintf(format, a...)) }

// Debug prints a debug message to stderr (only when Verbose is true).
func Debug(msg string) {
	if Verbose {
		line(Stderr, Dim, "DEBUG", msg)
	}
}

// Debugf prints a formatted debug message to stderr.
func Debugf(format string, a ...any) { Debug(fmt.Sprintf(format, a...)) }

// Toast reports launch failures on the command line, where there is no
// screen to pop a message over. It never exits.
type Toast struct {
	Shown int
}

// Notify prints msg as a warning.
func (t *Toast) Notify(msg string) {
	t.Shown++
	if msg == "" {
		msg = "launch failed"
	}
	Warn(msg)
}
