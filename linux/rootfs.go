// Package linux provides rootfs and mount handling.
package linux

import (
	"fmt"
	"os"
	"syscall"
)

// Mount flags used when mounting procfs.
const (
	MS_NOSUID = syscall.MS_NOSUID
	MS_NODEV  = syscall.MS_NODEV
	MS_NOEXEC = syscall.MS_NOEXEC
)

// Chroot changes the process's root filesystem to rootfs and changes the
// working directory into it. This is a plain chroot, not pivot_root: the
// sandbox trades the ability to cleanly unmount the old root for a much
// smaller, easier-to-reason-about syscall surface, matching the isolation
// model this sandbox targets.
func Chroot(rootfs string) error {
	if err := syscall.Chroot(rootfs); err != nil {
		return fmt.Errorf("chroot %s: %w", rootfs, err)
	}
	if err := os.Chdir("/"); err != nil {
		return fmt.Errorf("chdir /: %w", err)
	}
	return nil
}

// MountProc mounts a fresh procfs at /proc. Must run after the PID
// namespace has been entered (the child is PID 1 in it) and after Chroot,
// so /proc reflects the new filesystem root and the new PID namespace
// rather than the parent's.
func MountProc() error {
	if err := os.MkdirAll("/proc", 0755); err != nil {
		return fmt.Errorf("mkdir /proc: %w", err)
	}
	if err := syscall.Mount("proc", "/proc", "proc", MS_NOSUID|MS_NOEXEC|MS_NODEV, ""); err != nil {
		return fmt.Errorf("mount /proc: %w", err)
	}
	return nil
}
