// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Policy and configuration errors.
var (
	// ErrUnknownProfile indicates a profile token other than "open",
	// "restricted" or "locked" was supplied.
	ErrUnknownProfile = &SandboxError{
		Kind:   ErrPolicyError,
		Detail: "unknown profile",
	}

	// ErrEmptyArgv indicates the request's command vector was empty.
	ErrEmptyArgv = &SandboxError{
		Kind:   ErrInvalidConfig,
		Detail: "argv must not be empty",
	}

	// ErrEmptyRootfs indicates the request's rootfs path was empty.
	ErrEmptyRootfs = &SandboxError{
		Kind:   ErrInvalidConfig,
		Detail: "rootfs must not be empty",
	}

	// ErrCapParse indicates a cap environment variable was not a valid
	// base-10 uint64.
	ErrCapParse = &SandboxError{
		Kind:   ErrParseError,
		Detail: "malformed resource cap value",
	}
)

// Setup (pre-exec, inside the child) errors.
var (
	// ErrHostname indicates sethostname failed.
	ErrHostname = &SandboxError{
		Kind:   ErrSetupFailure,
		Detail: "failed to set hostname",
	}

	// ErrChroot indicates chroot or the following chdir failed.
	ErrChroot = &SandboxError{
		Kind:   ErrSetupFailure,
		Detail: "failed to chroot",
	}

	// ErrMountProc indicates mounting /proc failed.
	ErrMountProc = &SandboxError{
		Kind:   ErrSetupFailure,
		Detail: "failed to mount /proc",
	}

	// ErrSeccompLoad indicates the compiled filter could not be installed.
	ErrSeccompLoad = &SandboxError{
		Kind:   ErrSeccomp,
		Detail: "failed to load seccomp filter",
	}

	// ErrExec indicates the PATH-search exec of the target command failed.
	ErrExec = &SandboxError{
		Kind:   ErrSetupFailure,
		Detail: "failed to exec target command",
	}
)

// Supervisor (parent-side) errors.
var (
	// ErrClone indicates the parent could not create the child (the
	// re-exec'd process carrying the namespace clone flags).
	ErrClone = &SandboxError{
		Kind:   ErrCloneFailure,
		Detail: "failed to clone child",
	}

	// ErrChildHandoff indicates the marshalled SandboxRequest could not be
	// written to the child's configuration pipe.
	ErrChildHandoff = &SandboxError{
		Kind:   ErrInternal,
		Detail: "failed to hand off request to child",
	}
)

// Namespace errors.
var (
	// ErrNamespaceSetup indicates a namespace setup error.
	ErrNamespaceSetup = &SandboxError{
		Kind:   ErrNamespace,
		Detail: "failed to setup namespace",
	}
)

// Rootfs errors.
var (
	// ErrRootfsSetup indicates a rootfs setup error.
	ErrRootfsSetup = &SandboxError{
		Kind:   ErrRootfs,
		Detail: "failed to setup rootfs",
	}
)
