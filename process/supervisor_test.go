package process

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"testing"

	"cellrun/spec"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// === SUPERVISOR VALIDATION TESTS ===

func TestRun_RejectsEmptyArgv(t *testing.T) {
	var buf bytes.Buffer
	s := NewSupervisor(testLogger(&buf))

	req := &spec.SandboxRequest{Rootfs: "/tmp"}
	if _, err := s.Run(context.Background(), req); err == nil {
		t.Error("Run with empty argv should fail validation before touching the kernel")
	}
}

func TestRun_RejectsEmptyRootfs(t *testing.T) {
	var buf bytes.Buffer
	s := NewSupervisor(testLogger(&buf))

	req := &spec.SandboxRequest{Argv: []string{"/bin/true"}}
	if _, err := s.Run(context.Background(), req); err == nil {
		t.Error("Run with empty rootfs should fail validation before touching the kernel")
	}
}

// === WAIT-STATUS TRANSLATION TESTS (no root required: plain exec.Cmd) ===

func TestWait_NormalExit(t *testing.T) {
	var buf bytes.Buffer
	s := NewSupervisor(testLogger(&buf))

	cmd := exec.Command("/bin/sh", "-c", "exit 0")
	if err := cmd.Start(); err != nil {
		t.Skipf("no /bin/sh available: %v", err)
	}

	report, err := s.wait(cmd)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if report.Signaled || report.ExitCode != 0 {
		t.Errorf("report = %+v, want ExitCode 0", report)
	}
}

func TestWait_NonZeroExit(t *testing.T) {
	var buf bytes.Buffer
	s := NewSupervisor(testLogger(&buf))

	cmd := exec.Command("/bin/sh", "-c", "exit 7")
	if err := cmd.Start(); err != nil {
		t.Skipf("no /bin/sh available: %v", err)
	}

	report, err := s.wait(cmd)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if report.Signaled || report.ExitCode != 7 {
		t.Errorf("report = %+v, want ExitCode 7", report)
	}
}

func TestWait_Signaled(t *testing.T) {
	var buf bytes.Buffer
	s := NewSupervisor(testLogger(&buf))

	cmd := exec.Command("/bin/sh", "-c", "kill -TERM $$; sleep 5")
	if err := cmd.Start(); err != nil {
		t.Skipf("no /bin/sh available: %v", err)
	}

	report, err := s.wait(cmd)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !report.Signaled {
		t.Errorf("report = %+v, want Signaled true", report)
	}
}

// Full end-to-end Supervisor.Run (re-exec + Cloneflags + chroot + seccomp +
// exec) is not exercised by `go test`: Run re-execs os.Executable() as
// "cellrun __init__", which under `go test` is the test binary rather than
// the built CLI and has no __init__ subcommand. No test in the repository
// runs the S1-S6 scenarios end to end.
