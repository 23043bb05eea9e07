// Package spec defines the data model for the cellrun sandbox: the
// SandboxRequest the CLI hands to the supervisor, the three named seccomp
// profiles, the resource-cap table, and the exit report the supervisor
// returns once the child has been reaped.
package spec

import (
	"cellrun/errors"
)

// Profile is one of the three named seccomp-filter policies.
type Profile int

const (
	// Open installs no filter at all.
	Open Profile = iota
	// Restricted installs the common allow-list plus a networking allow-list.
	Restricted
	// Locked installs only the common allow-list, plus a redundant explicit
	// deny-list for mount/ptrace/reboot-class syscalls.
	Locked
)

// String returns the canonical lowercase token for the profile.
func (p Profile) String() string {
	switch p {
	case Open:
		return "open"
	case Restricted:
		return "restricted"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// ParseProfile normalizes a candidate string to a Profile. It accepts
// exactly the three tokens "open", "restricted", "locked" (case-sensitive,
// ASCII). Any other input — including empty, unknown, or whitespace-padded —
// is a policy error. ParseProfile never substitutes a default; that decision
// belongs to the caller.
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "open":
		return Open, nil
	case "restricted":
		return Restricted, nil
	case "locked":
		return Locked, nil
	default:
		return Open, errors.New(errors.ErrPolicyError, "parse profile", "unrecognized profile token: "+s)
	}
}
