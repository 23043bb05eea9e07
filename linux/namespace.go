// Package linux provides Linux-specific container primitives.
package linux

import (
	"syscall"
)

// Linux namespace clone flags. User namespaces are out of scope — the
// sandbox runs under the caller's own UID/GID — so only the three
// namespace kinds the sandbox actually isolates are named here.
const (
	CLONE_NEWNS  = syscall.CLONE_NEWNS  // Mount namespace
	CLONE_NEWUTS = syscall.CLONE_NEWUTS // UTS namespace (hostname)
	CLONE_NEWPID = syscall.CLONE_NEWPID // PID namespace
)

// SandboxCloneFlags is the fixed set of namespaces every sandboxed child
// is cloned into: a private mount table, its own hostname, and a PID
// namespace where it is PID 1.
const SandboxCloneFlags = CLONE_NEWUTS | CLONE_NEWNS | CLONE_NEWPID

// BuildSysProcAttr returns the SysProcAttr for re-executing the child into
// its namespaces.
func BuildSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Cloneflags: SandboxCloneFlags,
	}
}

// SetHostname sets the hostname in the UTS namespace. A blank hostname is
// a no-op, leaving the namespace's inherited (copied) hostname in place.
func SetHostname(hostname string) error {
	if hostname == "" {
		return nil
	}
	return syscall.Sethostname([]byte(hostname))
}

// SetDomainname sets the domain name in the UTS namespace.
func SetDomainname(domainname string) error {
	if domainname == "" {
		return nil
	}
	return syscall.Setdomainname([]byte(domainname))
}
