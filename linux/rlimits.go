package linux

import (
	"log/slog"

	"golang.org/x/sys/unix"

	"cellrun/spec"
)

// resourceToRlimit maps a ResourceKind to its RLIMIT_* constant.
var resourceToRlimit = map[spec.ResourceKind]int{
	spec.AddressSpace: unix.RLIMIT_AS,
	spec.DataSegment:  unix.RLIMIT_DATA,
	spec.CpuSeconds:   unix.RLIMIT_CPU,
	spec.OpenFiles:    unix.RLIMIT_NOFILE,
	spec.Processes:    unix.RLIMIT_NPROC,
}

// ApplyCaps applies every configured resource cap via setrlimit, with soft
// and hard set to the same value. A missing ResourceKind is left alone
// (inherit the parent's limit). Caps are applied before the child execs,
// so they are inherited across the exec boundary.
//
// A single resource's setrlimit failure is logged and does not abort the
// rest: a cap the kernel refuses (e.g. raising NPROC above a system
// ceiling) should not block applying the caps that do succeed.
func ApplyCaps(logger *slog.Logger, caps spec.ResourceCaps) {
	for kind, value := range caps {
		rlimitConst, ok := resourceToRlimit[kind]
		if !ok {
			continue
		}

		rl := unix.Rlimit{Cur: value, Max: value}
		if err := unix.Setrlimit(rlimitConst, &rl); err != nil {
			logger.Warn("setrlimit failed",
				slog.String("resource", kind.String()),
				slog.Uint64("value", value),
				slog.String("error", err.Error()))
			continue
		}
		logger.Debug("applied resource cap",
			slog.String("resource", kind.String()),
			slog.Uint64("value", value))
	}
}
