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

// Package intentflag holds the catalog of stock activity launch flags.
package intentflag

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnknownName is returned by Name for values outside the catalog.
const UnknownName = "Unknown Flag"

// Activity flag constants, as defined by android.content.Intent.
const (
	ActivityNewTask   = 0x10000000
	ActivityClearTask = 0x00008000
	ActivitySingleTop = 0x20000000
	ActivityClearTop  = 0x04000000
)

// ErrUnknownFlag is returned when a flag name cannot be resolved.
var ErrUnknownFlag = errors.New("unknown intent flag")

// ErrOutOfRange is returned for numeric flags that do not fit in 32 bits.
var ErrOutOfRange = errors.New("intent flag out of 32-bit range")

// Descriptor pairs a flag value with its canonical name.
type Descriptor struct {
	Value int
	Name  string
}

var catalog = []Descriptor{
	{ActivityNewTask, "FLAG_ACTIVITY_NEW_TASK"},
	{ActivityClearTask, "FLAG_ACTIVITY_CLEAR_TASK"},
	{ActivitySingleTop, "FLAG_ACTIVITY_SINGLE_TOP"},
	{ActivityClearTop, "FLAG_ACTIVITY_CLEAR_TOP"},
}

// Catalog returns the known flags in display order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Name returns the canonical name for v, or UnknownName.
func Name(v int) string {
	for _, d := range catalog {
		if d.Value == v {
			return d.Name
		}
	}
	return UnknownName
}

// Parse resolves a flag from its canonical name, its short name
// (e.g. "new_task"), or a decimal/0x-prefixed hex value. Numeric values
// must fit in 32 bits; 0x80000000 and above wrap to negative ints the way
// Intent flags do on the device.
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownFlag)
	}
	upper := strings.ToUpper(s)
	for _, d := range catalog {
		if upper == d.Name || upper == strings.TrimPrefix(d.Name, "FLAG_ACTIVITY_") {
			return d.Value, nil
		}
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		if v < math.MinInt32 || v > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
		}
		return int(int32(uint32(v))), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, s)
}

// Mask ORs flags into a single bitmask.
func Mask(flags []int) int {
	m := 0
	for _, f := range flags {
		m |= f
	}
	return m
}

// Hex formats a mask the way `am start -f` expects it.
func Hex(mask int) string {
	return fmt.Sprintf("0x%08x", uint32(mask))
}
