package process

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	cerrors "cellrun/errors"
	"cellrun/linux"
	"cellrun/spec"
	"cellrun/utils"
)

// initSubcommand is the hidden CLI subcommand the supervisor re-execs itself
// as; cmd/ registers it but never documents it in --help.
const initSubcommand = "__init__"

// Supervisor clones a SandboxRequest into fresh namespaces, waits for the
// child, and translates its exit status into an ExitReport. It is the Go
// realization of spec.md §4.5's "run(request) -> ExitReport" operation: a
// re-exec'd child with Cloneflags instead of raw clone(2) plus a malloc'd
// stack, per SPEC_FULL.md §3.
type Supervisor struct {
	Logger *slog.Logger

	// NoRawTTY disables putting an interactive stdin into raw mode.
	NoRawTTY bool
}

// NewSupervisor returns a Supervisor that logs with logger.
func NewSupervisor(logger *slog.Logger) *Supervisor {
	return &Supervisor{Logger: logger}
}

// Run clones req into a fresh child, blocks until it exits, and reports the
// outcome. Clone failure (the child could not even be started) is returned
// as an error; everything past that point — including the child failing its
// own setup sequence — is reported through the ExitReport, exactly as a
// setup failure and an ordinary exit-code-1 application exit are
// indistinguishable from the wait status alone (spec.md §4.5/§7).
func (s *Supervisor) Run(ctx context.Context, req *spec.SandboxRequest) (*spec.ExitReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	self, err := os.Executable()
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.ErrCloneFailure, "resolve executable")
	}

	pipe, err := utils.NewSyncPipe()
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.ErrCloneFailure, "create config pipe")
	}

	cmd := exec.CommandContext(ctx, self, initSubcommand)
	cmd.SysProcAttr = linux.BuildSysProcAttr()
	cmd.ExtraFiles = []*os.File{pipe.ReadFile()}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	restoreTerminal := utils.RawTerminal(os.Stdin, s.NoRawTTY)
	defer restoreTerminal()

	// Single write from the parent before Start — the marshalled argument
	// block of spec.md §9, realized as a byte stream instead of a shared
	// C struct (SPEC_FULL.md §3).
	if err := json.NewEncoder(pipe.WriteFile()).Encode(req); err != nil {
		pipe.Close()
		return nil, cerrors.Wrap(err, cerrors.ErrInternal, "marshal sandbox request")
	}

	if err := cmd.Start(); err != nil {
		pipe.Close()
		return nil, cerrors.Wrap(err, cerrors.ErrCloneFailure, "start child")
	}

	// The child holds its own duplicate of the read end (fd 3 inside it);
	// the parent's copy can go now.
	pipe.CloseRead()

	s.Logger.Debug("child started", slog.Int("pid", cmd.Process.Pid), slog.String("profile", req.Profile.String()))

	report, waitErr := s.wait(cmd)

	// The write end is the ChildHandle's owned buffer in this port: freed
	// only after wait has returned, mirroring spec.md §5's clone-stack
	// lifetime invariant.
	pipe.CloseWrite()

	if waitErr != nil {
		return nil, waitErr
	}
	return report, nil
}

// wait blocks until the child exits and translates the wait status into an
// ExitReport. Go's os/exec already retries wait4 against EINTR internally,
// so cmd.Wait does not return a bare EINTR and the loop's continue branch
// is not reached in practice; a second cmd.Wait call would itself fail with
// "Wait was already called" and be returned as an error.
func (s *Supervisor) wait(cmd *exec.Cmd) (*spec.ExitReport, error) {
	for {
		err := cmd.Wait()
		if err == nil {
			return &spec.ExitReport{ExitCode: 0}, nil
		}

		var exitErr *exec.ExitError
		if !cerrors.As(err, &exitErr) {
			if err == syscall.EINTR {
				continue
			}
			return nil, cerrors.Wrap(err, cerrors.ErrInternal, "wait")
		}

		ws, ok := exitErr.Sys().(syscall.WaitStatus)
		if !ok {
			return &spec.ExitReport{ExitCode: exitErr.ExitCode()}, nil
		}
		if ws.Signaled() {
			return &spec.ExitReport{Signaled: true, Signal: ws.Signal()}, nil
		}
		return &spec.ExitReport{ExitCode: ws.ExitStatus()}, nil
	}
}
