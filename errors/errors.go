// Package errors provides typed error handling for the cellrun sandbox.
//
// It defines the error kinds SetupFailure, CloneFailure, PolicyError and
// ParseError plus a handful of general classifications; an unresolvable
// syscall name is not an error kind here but a warning logged by the filter
// builder. Callers can use errors.Is/errors.As to distinguish a
// setup failure from a clone failure from a malformed policy token.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrInternal indicates an internal error not otherwise classified.
	ErrInternal ErrorKind = iota
	// ErrInvalidConfig indicates a malformed SandboxRequest or CLI invocation.
	ErrInvalidConfig
	// ErrSetupFailure indicates a pre-exec child step failed (hostname,
	// chroot, mount, exec). A seccomp load failure is classified as
	// ErrSeccomp instead, and rlimit failures are logged, not returned.
	ErrSetupFailure
	// ErrCloneFailure indicates the parent could not create the child.
	ErrCloneFailure
	// ErrPolicyError indicates an unrecognized profile token.
	ErrPolicyError
	// ErrParseError indicates a cap value was not parseable. An unrecognized
	// profile token is ErrPolicyError.
	ErrParseError
	// ErrSeccomp indicates a seccomp filter construction or load error.
	ErrSeccomp
	// ErrNamespace indicates a namespace setup error.
	ErrNamespace
	// ErrRootfs indicates a chroot or mount error.
	ErrRootfs
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidConfig:
		return "invalid config"
	case ErrSetupFailure:
		return "setup failure"
	case ErrCloneFailure:
		return "clone failure"
	case ErrPolicyError:
		return "policy error"
	case ErrParseError:
		return "parse error"
	case ErrSeccomp:
		return "seccomp error"
	case ErrNamespace:
		return "namespace error"
	case ErrRootfs:
		return "rootfs error"
	default:
		return "internal error"
	}
}

// SandboxError represents an error that occurred during sandbox setup or
// execution.
type SandboxError struct {
	// Op is the operation that failed (e.g. "chroot", "build filter").
	Op string
	// Err is the underlying error.
	Err error
	// Kind is the error classification.
	Kind ErrorKind
	// Detail provides additional context about the error.
	Detail string
}

// Error returns the error message.
func (e *SandboxError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	if e.Op != "" {
		msg = fmt.Sprintf("%s: ", e.Op)
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *SandboxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the error matches the target. It matches only if the
// target is a *SandboxError with the same Kind; matching against the
// underlying error is left to errors.Is, which follows Unwrap.
func (e *SandboxError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*SandboxError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a new SandboxError with the given kind.
func New(kind ErrorKind, op string, detail string) *SandboxError {
	return &SandboxError{Op: op, Kind: kind, Detail: detail}
}

// Wrap wraps an error with operation context.
func Wrap(err error, kind ErrorKind, op string) *SandboxError {
	return &SandboxError{Op: op, Err: err, Kind: kind}
}

// WrapWithDetail wraps an error with additional detail.
func WrapWithDetail(err error, kind ErrorKind, op string, detail string) *SandboxError {
	return &SandboxError{Op: op, Err: err, Kind: kind, Detail: detail}
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind ErrorKind) bool {
	var serr *SandboxError
	if errors.As(err, &serr) {
		return serr.Kind == kind
	}
	return false
}

// GetKind returns the error kind if the error is a SandboxError.
func GetKind(err error) (ErrorKind, bool) {
	var serr *SandboxError
	if errors.As(err, &serr) {
		return serr.Kind, true
	}
	return 0, false
}

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
