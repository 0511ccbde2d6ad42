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

package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/electricbubble/gadb"
	"github.com/kballard/go-shellquote"
)

// Default adb server address.
const (
	DefaultHost = "localhost"
	DefaultPort = 5037
)

var (
	// ErrNoDevice is returned when no device is attached.
	ErrNoDevice = errors.New("no devices/emulators found")
	// ErrMultipleDevices is returned when several devices are attached and
	// no serial was chosen.
	ErrMultipleDevices = errors.New("more than one device/emulator attached (choose one with --serial)")
)

// StartError is a rejection reported by the activity manager.
type StartError struct {
	Component string
	Message   string
}

func (e *StartError) Error() string { return e.Message }

// remote is the part of an attached device the dispatcher uses.
type remote interface {
	Serial() string
	Status() string
	RunShellCommand(cmd string, args ...string) (string, error)
}

type gadbDevice struct{ gadb.Device }

func (d gadbDevice) Status() string {
	st, err := d.State()
	if err != nil {
		return "unknown"
	}
	return string(st)
}

// ADB dispatches intents through the adb server with `am start`.
type ADB struct {
	Path   string // adb binary, used to start the server when it is down
	Host   string // empty = DefaultHost
	Port   int    // zero = DefaultPort
	Serial string // empty targets the only attached device

	// list replaces the adb server in tests.
	list func(ctx context.Context) ([]remote, error)
}

func (a *ADB) Name() string { return "adb" }

func (a *ADB) addr() (string, int) {
	host, port := a.Host, a.Port
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return host, port
}

// client connects to the adb server, starting it once if it is local and
// an adb binary is known.
func (a *ADB) client(ctx context.Context) (gadb.Client, error) {
	host, port := a.addr()
	c, err := gadb.NewClientWith(host, port)
	if err == nil {
		return c, nil
	}
	if a.Path == "" || !isLocal(host) {
		return gadb.Client{}, fmt.Errorf("connecting to adb server at %s:%d: %w", host, port, err)
	}

	out, serr := exec.CommandContext(ctx, a.Path, "-P", strconv.Itoa(port), "start-server").CombinedOutput()
	if serr != nil {
		return gadb.Client{}, fmt.Errorf("starting adb server: %s", strings.TrimSpace(string(out)))
	}
	return gadb.NewClientWith(host, port)
}

func isLocal(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func (a *ADB) remotes(ctx context.Context) ([]remote, error) {
	if a.list != nil {
		return a.list(ctx)
	}
	c, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	devs, err := c.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	out := make([]remote, len(devs))
	for i, d := range devs {
		out[i] = gadbDevice{d}
	}
	return out, nil
}

// device picks the target: the configured serial, or the only device.
func (a *ADB) device(ctx context.Context) (remote, error) {
	devs, err := a.remotes(ctx)
	if err != nil {
		return nil, err
	}
	if a.Serial != "" {
		for _, d := range devs {
			if d.Serial() == a.Serial {
				return d, nil
			}
		}
		return nil, fmt.Errorf("device '%s' not found", a.Serial)
	}
	switch len(devs) {
	case 0:
		return nil, ErrNoDevice
	case 1:
		return devs[0], nil
	}
	return nil, ErrMultipleDevices
}

// Start runs am start for the intent. am exits 0 on most failures, so the
// output is inspected rather than a status.
func (a *ADB) Start(ctx context.Context, in Intent) error {
	dev, err := a.device(ctx)
	if err != nil {
		return err
	}
	out, err := shell(ctx, dev, append([]string{"am", "start"}, in.Args()...))
	if err != nil {
		return err
	}
	return parseStartOutput(in.Component(), out)
}

// shell runs argv on the device. The server hands the command line to the
// device shell, so each argument is quoted to arrive unchanged.
func shell(ctx context.Context, dev remote, argv []string) (string, error) {
	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	line := shellquote.Join(argv...)
	go func() {
		out, err := dev.RunShellCommand(line)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("adb: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("adb shell: %w", r.err)
		}
		return r.out, nil
	}
}

// parseStartOutput extracts the failure, if any, from am start output.
func parseStartOutput(component, out string) error {
	var errLine, excLine string
	sawErrorType := false

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(l, "Error:"):
			if errLine == "" {
				errLine = strings.TrimSpace(strings.TrimPrefix(l, "Error:"))
			}
		case strings.HasPrefix(l, "Error type"):
			sawErrorType = true
		case strings.HasPrefix(l, "java.lang.") || strings.HasPrefix(l, "android."):
			if excLine == "" && strings.Contains(l, "Exception") {
				excLine = l
			}
		}
	}

	switch {
	case errLine != "":
		return &StartError{Component: component, Message: errLine}
	case excLine != "":
		if _, msg, ok := strings.Cut(excLine, ": "); ok && msg != "" {
			return &StartError{Component: component, Message: msg}
		}
		return &StartError{Component: component, Message: excLine}
	case sawErrorType:
		return &StartError{Component: component, Message: "Activity not started: " + component}
	}
	return nil
}

// Device is one attached device as reported by the adb server.
type Device struct {
	Serial string
	State  string // online, offline, ...
}

// Devices lists attached devices.
func (a *ADB) Devices(ctx context.Context) ([]Device, error) {
	devs, err := a.remotes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Device, len(devs))
	for i, d := range devs {
		out[i] = Device{Serial: d.Serial(), State: d.Status()}
	}
	return out, nil
}
