// Package process implements the sandboxed child's initializer and the
// parent-side supervisor that clones it into fresh namespaces.
package process

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	cerrors "cellrun/errors"
	"cellrun/linux"
	"cellrun/logging"
	"cellrun/spec"
)

// configFD is the file descriptor the child reads its SandboxRequest from.
// The supervisor passes the pipe's read end as the sole entry of
// cmd.ExtraFiles; os/exec places extra files starting at fd 3 (after
// stdin/stdout/stderr).
const configFD = 3

// sandboxHostname is the fixed UTS-namespace hostname every sandboxed child
// gets, per spec.md §4.4 step 1.
const sandboxHostname = "sandbox"

// RunChildInit is the entry point for the hidden __init__ subcommand. It
// runs inside the freshly cloned namespaces and executes the fixed
// initializer sequence: hostname, chroot, mount /proc, resource caps,
// capability bounding (Locked only), seccomp filter, exec. Any fatal step
// logs to stderr and exits 1 without reaching exec — the child never
// propagates errors up the clone boundary beyond its exit code.
func RunChildInit() {
	logger := logging.Default()

	req, err := readRequest()
	if err != nil {
		fail(logger, "read request", err)
	}

	logger = logging.WithProfile(logger, req.Profile.String())

	if err := linux.SetHostname(sandboxHostname); err != nil {
		fail(logger, "set hostname", cerrors.Wrap(err, cerrors.ErrSetupFailure, "sethostname"))
	}

	logger = logging.WithRootfs(logger, req.Rootfs)
	if err := linux.Chroot(req.Rootfs); err != nil {
		fail(logger, "chroot", cerrors.Wrap(err, cerrors.ErrSetupFailure, "chroot"))
	}

	if err := linux.MountProc(); err != nil {
		fail(logger, "mount proc", cerrors.Wrap(err, cerrors.ErrSetupFailure, "mount /proc"))
	}

	// Caps precede the filter so filter installation (and its own
	// allocations) is never itself rate-limited by a cap it just set.
	linux.ApplyCaps(logger, req.Caps)

	if req.Profile == spec.Locked {
		linux.DropBoundingCaps(logger)
	}

	if err := linux.BuildAndLoad(logger, req.Profile); err != nil {
		fail(logger, "load seccomp filter", cerrors.Wrap(err, cerrors.ErrSeccomp, "build_and_load"))
	}

	execTarget(logger, req.Argv)
}

// readRequest decodes the SandboxRequest the supervisor wrote to the
// configuration pipe before starting the child. This is the Go realization
// of spec.md §9's marshalled argument block: a single positional read, no
// string copies beyond what json.Decoder performs.
func readRequest() (*spec.SandboxRequest, error) {
	f := os.NewFile(uintptr(configFD), "cellrun-config")
	if f == nil {
		return nil, fmt.Errorf("configuration pipe (fd %d) not open", configFD)
	}
	defer f.Close()

	var req spec.SandboxRequest
	if err := json.NewDecoder(f).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode sandbox request: %w", err)
	}
	return &req, nil
}

// execTarget PATH-searches and execs the requested command, replacing the
// child image. If exec returns at all it has failed; the child exits 1
// without ever having run the target, per spec.md §4.4 step 6.
func execTarget(logger *slog.Logger, argv []string) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		fail(logger, "lookup command", cerrors.WrapWithDetail(err, cerrors.ErrSetupFailure, "exec lookup", argv[0]))
	}

	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		fail(logger, "exec", cerrors.WrapWithDetail(err, cerrors.ErrSetupFailure, "execve", path))
	}
}

// fail writes a diagnostic to the child's inherited stderr and exits 1.
func fail(logger *slog.Logger, op string, err error) {
	logger.Error("sandbox setup failed", slog.String("op", op), slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "cellrun: %s: %v\n", op, err)
	os.Exit(1)
}
