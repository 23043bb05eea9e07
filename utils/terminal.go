// Package utils provides terminal raw-mode and parent-child handoff helpers.
package utils

import (
	"os"

	"golang.org/x/term"
)

// RawTerminal puts stdin into raw mode for the duration of a sandboxed run,
// if and only if stdin is an actual terminal. It returns a restore function
// that is always safe to call, including when no mode change was made.
//
// This is a CLI ergonomics feature only (SPEC_FULL.md §4.5): a user running
// cellrun against an interactive shell sees a normal terminal instead of one
// that echoes twice or mangles control characters. It has no bearing on any
// containment invariant.
func RawTerminal(stdin *os.File, disabled bool) (restore func()) {
	noop := func() {}
	if disabled || !term.IsTerminal(int(stdin.Fd())) {
		return noop
	}

	oldState, err := term.MakeRaw(int(stdin.Fd()))
	if err != nil {
		return noop
	}
	return func() {
		term.Restore(int(stdin.Fd()), oldState)
	}
}
