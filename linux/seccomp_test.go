package linux

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"cellrun/spec"
)

// TestAppendRules_LogsUnknown tests that an unresolvable syscall name is
// reported through the logger, not just silently dropped.
func TestAppendRules_LogsUnknown(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var filter []sockFilter
	appendRules(logger, filter, []string{"made_up_syscall"}, SECCOMP_RET_ALLOW)

	output := buf.String()
	if !strings.Contains(output, "syscall=made_up_syscall") {
		t.Errorf("expected unresolved syscall to be logged, got: %s", output)
	}
}

// ============================================================================
// PROFILE FILTER SHAPE TESTS
// ============================================================================

// TestBuildFilter_Open tests that the Open profile installs no filter.
func TestBuildFilter_Open(t *testing.T) {
	filter, err := BuildFilter(testLogger(&bytes.Buffer{}), spec.Open)
	if err != nil {
		t.Fatalf("BuildFilter(Open) failed: %v", err)
	}
	if filter != nil {
		t.Errorf("BuildFilter(Open) = %d instructions, want nil", len(filter))
	}
}

// TestBuildFilter_Restricted tests that Restricted installs arch check,
// common allow-list, network allow-list, and a default deny.
func TestBuildFilter_Restricted(t *testing.T) {
	filter, err := BuildFilter(testLogger(&bytes.Buffer{}), spec.Restricted)
	if err != nil {
		t.Fatalf("BuildFilter(Restricted) failed: %v", err)
	}

	// arch load + arch check + kill + nr load + 2 insns per allowed
	// syscall + default deny
	want := 4 + 2*(len(commonAllowList)+len(networkAllowList)) + 1
	if len(filter) != want {
		t.Errorf("BuildFilter(Restricted) = %d instructions, want %d", len(filter), want)
	}
}

// TestBuildFilter_Locked tests that Locked installs the common allow-list
// plus the redundant explicit deny-list, with no networking rules.
func TestBuildFilter_Locked(t *testing.T) {
	filter, err := BuildFilter(testLogger(&bytes.Buffer{}), spec.Locked)
	if err != nil {
		t.Fatalf("BuildFilter(Locked) failed: %v", err)
	}

	want := 4 + 2*(len(commonAllowList)+len(lockedDenyList)) + 1
	if len(filter) != want {
		t.Errorf("BuildFilter(Locked) = %d instructions, want %d", len(filter), want)
	}
}

// TestBuildFilter_LockedExcludesNetworking tests Locked has no networking
// allow rules, unlike Restricted.
func TestBuildFilter_LockedExcludesNetworking(t *testing.T) {
	restricted, _ := BuildFilter(testLogger(&bytes.Buffer{}), spec.Restricted)
	locked, _ := BuildFilter(testLogger(&bytes.Buffer{}), spec.Locked)

	if len(locked) >= len(restricted) {
		t.Errorf("Locked filter (%d) should be smaller than Restricted's networking superset (%d)",
			len(locked), len(restricted))
	}
}

// ============================================================================
// DEFAULT ACTION TESTS
// ============================================================================

// TestBuildFilter_DefaultActionIsErrno tests the trailing default
// instruction returns errno EPERM rather than allow or kill.
func TestBuildFilter_DefaultActionIsErrno(t *testing.T) {
	for _, profile := range []spec.Profile{spec.Restricted, spec.Locked} {
		filter, err := BuildFilter(testLogger(&bytes.Buffer{}), profile)
		if err != nil {
			t.Fatalf("BuildFilter(%s) failed: %v", profile, err)
		}
		last := filter[len(filter)-1]
		if last.Code != BPF_RET|BPF_K {
			t.Errorf("%s: last instruction code = %#x, want BPF_RET|BPF_K", profile, last.Code)
		}
		if last.K&SECCOMP_RET_ERRNO == 0 {
			t.Errorf("%s: default action K = %#x, want SECCOMP_RET_ERRNO set", profile, last.K)
		}
	}
}

// ============================================================================
// BPF INSTRUCTION TESTS
// ============================================================================

// TestBpfStmt_Encoding tests that BPF statements are encoded correctly.
func TestBpfStmt_Encoding(t *testing.T) {
	tests := []struct {
		name string
		code uint16
		k    uint32
	}{
		{"load arch", BPF_LD | BPF_W | BPF_ABS, offsetArch},
		{"load nr", BPF_LD | BPF_W | BPF_ABS, offsetNR},
		{"ret allow", BPF_RET | BPF_K, SECCOMP_RET_ALLOW},
		{"ret kill", BPF_RET | BPF_K, SECCOMP_RET_KILL_PROCESS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := bpfStmt(tt.code, tt.k)
			if inst.Code != tt.code {
				t.Errorf("Code = %d, want %d", inst.Code, tt.code)
			}
			if inst.K != tt.k {
				t.Errorf("K = %d, want %d", inst.K, tt.k)
			}
			if inst.Jt != 0 || inst.Jf != 0 {
				t.Error("statement should have Jt=0 and Jf=0")
			}
		})
	}
}

// TestBpfJump_Encoding tests that BPF jumps are encoded correctly.
func TestBpfJump_Encoding(t *testing.T) {
	tests := []struct {
		name string
		code uint16
		k    uint32
		jt   uint8
		jf   uint8
	}{
		{"jeq arch", BPF_JMP | BPF_JEQ | BPF_K, AUDIT_ARCH_X86_64, 1, 0},
		{"jeq syscall", BPF_JMP | BPF_JEQ | BPF_K, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := bpfJump(tt.code, tt.k, tt.jt, tt.jf)
			if inst.Code != tt.code {
				t.Errorf("Code = %d, want %d", inst.Code, tt.code)
			}
			if inst.K != tt.k {
				t.Errorf("K = %d, want %d", inst.K, tt.k)
			}
			if inst.Jt != tt.jt {
				t.Errorf("Jt = %d, want %d", inst.Jt, tt.jt)
			}
			if inst.Jf != tt.jf {
				t.Errorf("Jf = %d, want %d", inst.Jf, tt.jf)
			}
		})
	}
}

// ============================================================================
// ALLOW / DENY LIST TESTS
// ============================================================================

// TestAppendRules_SkipsUnknown tests that an unresolvable syscall name
// contributes no instructions rather than failing the build.
func TestAppendRules_SkipsUnknown(t *testing.T) {
	var filter []sockFilter
	filter = appendRules(testLogger(&bytes.Buffer{}), filter, []string{"read", "made_up_syscall", "write"}, SECCOMP_RET_ALLOW)

	// two resolved names * 2 instructions each
	if len(filter) != 4 {
		t.Errorf("appendRules produced %d instructions, want 4 (unknown names should be skipped)", len(filter))
	}
}

// TestCommonAllowList_AllResolve tests that every syscall name in the
// common allow-list resolves on this architecture; a name that regresses
// here would silently shrink the filter.
func TestCommonAllowList_AllResolve(t *testing.T) {
	for _, name := range commonAllowList {
		if _, ok := Resolve(name); !ok {
			t.Errorf("commonAllowList entry %q does not resolve", name)
		}
	}
}

// TestNetworkAllowList_AllResolve mirrors TestCommonAllowList_AllResolve
// for the networking allow-list.
func TestNetworkAllowList_AllResolve(t *testing.T) {
	for _, name := range networkAllowList {
		if _, ok := Resolve(name); !ok {
			t.Errorf("networkAllowList entry %q does not resolve", name)
		}
	}
}

// TestLockedDenyList_AllResolve mirrors TestCommonAllowList_AllResolve for
// the Locked profile's explicit deny-list.
func TestLockedDenyList_AllResolve(t *testing.T) {
	for _, name := range lockedDenyList {
		if _, ok := Resolve(name); !ok {
			t.Errorf("lockedDenyList entry %q does not resolve", name)
		}
	}
}

// ============================================================================
// LOAD FILTER TESTS
// ============================================================================

// TestLoadFilter_NilIsNoop tests that loading a nil/empty filter (the Open
// profile's program) never attempts a syscall and always succeeds.
func TestLoadFilter_NilIsNoop(t *testing.T) {
	if err := LoadFilter(nil); err != nil {
		t.Errorf("LoadFilter(nil) = %v, want nil", err)
	}
	if err := LoadFilter([]sockFilter{}); err != nil {
		t.Errorf("LoadFilter(empty) = %v, want nil", err)
	}
}
