// Package linux provides seccomp BPF filter support.
package linux

import (
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"cellrun/logging"
	"cellrun/spec"
)

// Seccomp constants
const (
	SECCOMP_MODE_FILTER      = 2
	SECCOMP_RET_KILL_PROCESS = 0x80000000
	SECCOMP_RET_KILL_THREAD  = 0x00000000
	SECCOMP_RET_TRAP         = 0x00030000
	SECCOMP_RET_ERRNO        = 0x00050000
	SECCOMP_RET_TRACE        = 0x7ff00000
	SECCOMP_RET_LOG          = 0x7ffc0000
	SECCOMP_RET_ALLOW        = 0x7fff0000

	PR_SET_NO_NEW_PRIVS = 38
	PR_SET_SECCOMP      = 22

	// SECCOMP_SET_MODE_FILTER is the operation argument to the seccomp(2)
	// syscall, the preferred install path over prctl(PR_SET_SECCOMP)
	// because it accepts flags such as SECCOMP_FILTER_FLAG_LOG.
	SECCOMP_SET_MODE_FILTER = 1

	// SECCOMP_FILTER_FLAG_LOG asks the kernel to audit-log every syscall
	// the filter denies, so a blocked call is diagnosable without
	// loosening the policy to find out what tripped it.
	SECCOMP_FILTER_FLAG_LOG = 1 << 1

	// sysSeccomp is the seccomp(2) syscall number on x86_64; it has no
	// symbol in the syscall package.
	sysSeccomp = 317
)

// BPF constants
const (
	BPF_LD  = 0x00
	BPF_JMP = 0x05
	BPF_RET = 0x06
	BPF_W   = 0x00
	BPF_ABS = 0x20
	BPF_JEQ = 0x10
	BPF_K   = 0x00
)

// Seccomp data offsets
const (
	offsetNR   = 0
	offsetArch = 4
)

// AUDIT_ARCH_X86_64 is the only architecture the filter builder targets,
// matching the resolver's syscall-number table.
const AUDIT_ARCH_X86_64 = 0xc000003e

// sockFprog is the BPF program structure.
type sockFprog struct {
	Len    uint16
	Filter *sockFilter
}

// sockFilter is a single BPF instruction.
type sockFilter struct {
	Code uint16
	Jt   uint8
	Jf   uint8
	K    uint32
}

// commonAllowList covers dynamic-linker startup, basic I/O, signal
// handling, memory management, process lifecycle, and time/identity
// queries. Present in every profile that installs a filter.
var commonAllowList = []string{
	"read", "write", "pread64", "pwrite64", "close", "fstat", "newfstatat",
	"statx", "lseek", "open", "openat", "readlink", "access", "ioctl",
	"mmap", "mprotect", "munmap", "brk", "clone", "fork", "vfork", "execve",
	"execveat", "wait4", "exit", "exit_group", "set_tid_address",
	"set_robust_list", "getpid", "getppid", "gettid", "futex",
	"rt_sigaction", "rt_sigprocmask", "sigaltstack", "rt_sigreturn",
	"clock_gettime", "gettimeofday", "nanosleep", "uname", "prlimit64",
	"getuid", "geteuid", "getgid", "getegid", "arch_prctl", "prctl", "rseq",
	"getrandom", "poll", "ppoll", "epoll_create1", "epoll_wait", "epoll_ctl",
	"mknod",
}

// networkAllowList is layered on top of commonAllowList for Restricted.
var networkAllowList = []string{
	"socket", "connect", "bind", "listen", "accept", "accept4", "sendto",
	"recvfrom", "sendmsg", "recvmsg", "socketpair", "dup", "dup2", "dup3",
}

// lockedDenyList is installed redundantly alongside the common allow-list
// for Locked: these stay denied even if a future edit accidentally widens
// the common list to cover one of them.
var lockedDenyList = []string{
	"mount", "umount2", "ptrace", "reboot", "kexec_load",
}

// BuildFilter compiles a BPF program for the given profile. Open returns a
// nil program; the caller must treat that as "install nothing". Unknown
// syscall names in the allow/deny lists are silently omitted by the
// resolver rather than failing filter construction — logger records each
// omission at Warn so a profile that quietly lost a rule on an unfamiliar
// kernel is still diagnosable.
func BuildFilter(logger *slog.Logger, profile spec.Profile) ([]sockFilter, error) {
	if profile == spec.Open {
		return nil, nil
	}

	var filter []sockFilter

	filter = append(filter, bpfStmt(BPF_LD|BPF_W|BPF_ABS, offsetArch))
	filter = append(filter, bpfJump(BPF_JMP|BPF_JEQ|BPF_K, AUDIT_ARCH_X86_64, 1, 0))
	filter = append(filter, bpfStmt(BPF_RET|BPF_K, SECCOMP_RET_KILL_PROCESS))

	filter = append(filter, bpfStmt(BPF_LD|BPF_W|BPF_ABS, offsetNR))

	allow := append([]string{}, commonAllowList...)
	if profile == spec.Restricted {
		allow = append(allow, networkAllowList...)
	}
	filter = appendRules(logger, filter, allow, SECCOMP_RET_ALLOW)

	if profile == spec.Locked {
		filter = appendRules(logger, filter, lockedDenyList, SECCOMP_RET_ERRNO|uint32(syscall.EPERM))
	}

	filter = append(filter, bpfStmt(BPF_RET|BPF_K, SECCOMP_RET_ERRNO|uint32(syscall.EPERM)))

	return filter, nil
}

// appendRules appends one jump-then-return pair per resolved syscall name,
// warning through logger for each name the resolver does not recognize.
func appendRules(logger *slog.Logger, filter []sockFilter, names []string, ret uint32) []sockFilter {
	for _, name := range names {
		nr, ok := Resolve(name)
		if !ok {
			logging.WithSyscall(logger, name).Warn("syscall not recognized on this architecture, omitting from filter")
			continue
		}
		filter = append(filter, bpfJump(BPF_JMP|BPF_JEQ|BPF_K, uint32(nr), 0, 1))
		filter = append(filter, bpfStmt(BPF_RET|BPF_K, ret))
	}
	return filter
}

// bpfStmt creates a BPF statement.
func bpfStmt(code uint16, k uint32) sockFilter {
	return sockFilter{Code: code, Jt: 0, Jf: 0, K: k}
}

// bpfJump creates a BPF jump instruction.
func bpfJump(code uint16, k uint32, jt, jf uint8) sockFilter {
	return sockFilter{Code: code, Jt: jt, Jf: jf, K: k}
}

// LoadFilter installs a compiled BPF program on the current thread. A nil
// program is a no-op (the Open profile). NoNewPrivs is set first, since the
// kernel requires it (or CAP_SYS_ADMIN) before an unprivileged thread may
// install a filter.
//
// Installation goes through the seccomp(2) syscall with
// SECCOMP_FILTER_FLAG_LOG so denied syscalls land in the kernel audit log;
// on a kernel lacking the three-argument seccomp(2) entry point it falls
// back to prctl(PR_SET_SECCOMP), which has no logging flag of its own.
func LoadFilter(filter []sockFilter) error {
	if len(filter) == 0 {
		return nil
	}

	if _, _, errno := syscall.Syscall(syscall.SYS_PRCTL, PR_SET_NO_NEW_PRIVS, 1, 0); errno != 0 {
		return fmt.Errorf("prctl(PR_SET_NO_NEW_PRIVS): %v", errno)
	}

	prog := sockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}

	_, _, errno := syscall.Syscall(sysSeccomp,
		SECCOMP_SET_MODE_FILTER,
		SECCOMP_FILTER_FLAG_LOG,
		uintptr(unsafe.Pointer(&prog)))
	if errno == 0 {
		return nil
	}

	_, _, errno = syscall.Syscall(syscall.SYS_PRCTL,
		PR_SET_SECCOMP,
		SECCOMP_MODE_FILTER,
		uintptr(unsafe.Pointer(&prog)))
	if errno != 0 {
		return fmt.Errorf("prctl(PR_SET_SECCOMP): %v", errno)
	}
	return nil
}

// BuildAndLoad builds and installs the filter for a profile in one step.
func BuildAndLoad(logger *slog.Logger, profile spec.Profile) error {
	filter, err := BuildFilter(logger, profile)
	if err != nil {
		return err
	}
	return LoadFilter(filter)
}
