// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"time"
	"unicode"
)

// MaxAddressLen bounds the length of a caller address.
const MaxAddressLen = 128

// Address is an opaque caller identity supplied by the identity oracle.
// The ledger only compares addresses; it never authenticates them.
type Address string

// Valid reports whether a is a usable identity: non-empty, printable, no
// whitespace and at most MaxAddressLen bytes.
func (a Address) Valid() bool {
	if a == "" || len(a) > MaxAddressLen {
		return false
	}
	for _, r := range string(a) {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// Clock supplies the current time. The ledger samples it once per call.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
