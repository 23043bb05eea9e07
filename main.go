// cellrun is a Linux process sandbox: it launches a command inside fresh
// UTS/mount/PID namespaces, a chroot'd filesystem root, a seccomp-bpf
// syscall filter, and rlimit-based resource caps.
//
// Usage:
//
//	cellrun <rootfs> <profile> <cmd> [args...]
//	cellrun <rootfs> <cmd> [args...]
package main

import (
	"fmt"
	"os"

	"cellrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cellrun: %v\n", err)
		os.Exit(1)
	}
}
