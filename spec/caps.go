package spec

import (
	"os"
	"strconv"

	"cellrun/errors"
)

// ResourceKind enumerates the resources the cap applier can restrict.
type ResourceKind int

const (
	// AddressSpace is the virtual address space limit (RLIMIT_AS), in bytes.
	AddressSpace ResourceKind = iota
	// DataSegment is the process data segment limit (RLIMIT_DATA), in bytes.
	DataSegment
	// CpuSeconds is the CPU time limit (RLIMIT_CPU), in seconds.
	CpuSeconds
	// OpenFiles is the open file descriptor limit (RLIMIT_NOFILE), a count.
	OpenFiles
	// Processes is the process/thread limit (RLIMIT_NPROC), a count.
	Processes
)

// String returns the resource kind's environment-variable-free name, used in
// log messages.
func (k ResourceKind) String() string {
	switch k {
	case AddressSpace:
		return "address_space"
	case DataSegment:
		return "data_segment"
	case CpuSeconds:
		return "cpu_seconds"
	case OpenFiles:
		return "open_files"
	case Processes:
		return "processes"
	default:
		return "unknown"
	}
}

// ResourceCaps maps a resource kind to the 64-bit unsigned cap value. A
// missing key means "inherit"; both the soft and hard limit are set to the
// same value when applied.
type ResourceCaps map[ResourceKind]uint64

// capEnvVars pairs each resource kind with the environment variable the CLI
// reads it from, per the external-interface contract.
var capEnvVars = map[ResourceKind]string{
	AddressSpace: "SANDBOX_RLIMIT_AS",
	DataSegment:  "SANDBOX_RLIMIT_DATA",
	CpuSeconds:   "SANDBOX_RLIMIT_CPU",
	OpenFiles:    "SANDBOX_RLIMIT_NOFILE",
	Processes:    "SANDBOX_RLIMIT_NPROC",
}

// CapsFromEnv reads the SANDBOX_RLIMIT_* environment variables and builds a
// ResourceCaps table. Unset variables are omitted (inherit). A malformed
// value (not a base-10 uint64) is reported as a cap-parse error for that
// resource alone; the other resources are still parsed.
func CapsFromEnv() (ResourceCaps, []error) {
	caps := make(ResourceCaps)
	var parseErrs []error

	for kind, name := range capEnvVars {
		s, ok := os.LookupEnv(name)
		if !ok || s == "" {
			continue
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			parseErrs = append(parseErrs, errors.WrapWithDetail(err, errors.ErrParseError, "parse "+name, s))
			continue
		}
		caps[kind] = v
	}

	return caps, parseErrs
}
