// Package policy implements the form-B profile fallback chain (spec.md §6):
// SANDBOX_SECCOMP_MODE env var, then the first line of a policy file, then a
// documented default. This lives outside the core: spec.md's Policy resolver
// (§4.6) never substitutes a default on its own, the substitution to "open"
// happens here, one layer up, in the CLI's caller.
package policy

import (
	"bufio"
	"os"
	"strings"

	"cellrun/spec"
)

// DefaultPolicyFile is the well-known path form-B invocation falls back to
// when SANDBOX_SECCOMP_MODE is unset, matching original_source's
// load_policy_mode_from_file convention.
const DefaultPolicyFile = "/etc/sandbox_policy"

// SeccompModeEnvVar is the environment variable form-B invocation checks
// first.
const SeccompModeEnvVar = "SANDBOX_SECCOMP_MODE"

// DefaultProfile is the profile form-B invocation uses when neither the
// environment variable nor the policy file resolves to a token. spec.md §9
// notes the original source carried divergent defaults across revisions
// (locked, strict, open); this port follows the most recent source revision
// and documents open as the fallback.
const DefaultProfile = spec.Open

// Resolve implements the form-B fallback chain: SANDBOX_SECCOMP_MODE env var,
// else the first line of policyFile (trimmed of surrounding whitespace), else
// DefaultProfile. A token that fails ParseProfile at either stage is treated
// as "not resolved at this stage" and the chain continues; when neither
// stage yields a valid token, the documented default is returned.
func Resolve(policyFile string) spec.Profile {
	if token, ok := os.LookupEnv(SeccompModeEnvVar); ok && token != "" {
		if p, err := spec.ParseProfile(token); err == nil {
			return p
		}
	}

	if token, ok := readPolicyFile(policyFile); ok {
		if p, err := spec.ParseProfile(token); err == nil {
			return p
		}
	}

	return DefaultProfile
}

// readPolicyFile reads the first line of path, with its line terminator
// dropped and leading and trailing whitespace trimmed.
func readPolicyFile(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
