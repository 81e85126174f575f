// SPDX-License-Identifier: GPL-3.0-or-later

// Package runtimex contains small runtime assertion helpers.
package runtimex

import "fmt"

// Assert panics with msg if cond is false.
//
// Use this to guard invariants that must never be false in correct code,
// not to validate input coming from outside the process.
func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// Assertf is like [Assert] but formats the panic message.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
