// Package linux provides cgroup handling.
package linux

import "log/slog"

// SetupCgroup is an explicit no-op. Wiring a sandboxed process into a
// dedicated cgroup (creating it under /sys/fs/cgroup, writing
// memory.max/cpu.max/pids.max, and moving the child's PID in) is left
// unimplemented; resource containment here is provided entirely by the
// setrlimit-based caps in ApplyCaps. This stub exists so a future cgroup
// backend has an obvious place to attach without requiring every caller to
// change.
func SetupCgroup(logger *slog.Logger, name string) error {
	logger.Debug("cgroup setup not implemented", slog.String("name", name))
	return nil
}
