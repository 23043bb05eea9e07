// Package linux provides Linux capability management.
package linux

import (
	"log/slog"
	"syscall"
)

// Capability constants (from linux/capability.h), limited to the handful
// the Locked profile drops from its bounding set.
const (
	CAP_NET_ADMIN  = 12
	CAP_SYS_MODULE = 16
	CAP_SYS_PTRACE = 19
	CAP_SYS_ADMIN  = 21
	CAP_SYS_BOOT   = 22
)

const (
	PR_CAPBSET_DROP = 24
)

// lockedBoundingDrop is the set of capabilities dropped from the bounding
// set for the Locked profile: broad administrative power, module loading,
// reboot/kexec, ptrace, and raw network administration. This is
// supplemental to the seccomp deny-list, not a substitute for it — a
// process with these capabilities already dropped still needs the
// syscalls filtered, since dropping a capability does not remove the
// syscall from the table.
var lockedBoundingDrop = []int{
	CAP_SYS_ADMIN, CAP_SYS_MODULE, CAP_SYS_BOOT, CAP_SYS_PTRACE, CAP_NET_ADMIN,
}

// DropBoundingCaps drops lockedBoundingDrop from the calling thread's
// capability bounding set. Each drop is independent and non-fatal: a
// kernel that rejects one (already absent, or CAP_SETPCAP missing) should
// not stop the rest from being attempted.
func DropBoundingCaps(logger *slog.Logger) {
	for _, cap := range lockedBoundingDrop {
		_, _, errno := syscall.Syscall(syscall.SYS_PRCTL, PR_CAPBSET_DROP, uintptr(cap), 0)
		if errno != 0 && errno != syscall.EINVAL {
			logger.Warn("capbset drop failed",
				slog.Int("cap", cap),
				slog.String("error", errno.Error()))
		}
	}
}
