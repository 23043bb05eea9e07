package spec

import (
	"os"
	"testing"
)

func TestResourceKind_String(t *testing.T) {
	tests := []struct {
		kind     ResourceKind
		expected string
	}{
		{AddressSpace, "address_space"},
		{DataSegment, "data_segment"},
		{CpuSeconds, "cpu_seconds"},
		{OpenFiles, "open_files"},
		{Processes, "processes"},
		{ResourceKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ResourceKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func clearCapEnv(t *testing.T) {
	t.Helper()
	for _, name := range capEnvVars {
		old, had := os.LookupEnv(name)
		os.Unsetenv(name)
		t.Cleanup(func() {
			if had {
				os.Setenv(name, old)
			}
		})
	}
}

func TestCapsFromEnv_Unset(t *testing.T) {
	clearCapEnv(t)

	caps, errs := CapsFromEnv()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(caps) != 0 {
		t.Errorf("expected empty caps, got %v", caps)
	}
}

func TestCapsFromEnv_ValidValue(t *testing.T) {
	clearCapEnv(t)
	os.Setenv("SANDBOX_RLIMIT_AS", "33554432")

	caps, errs := CapsFromEnv()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if caps[AddressSpace] != 33554432 {
		t.Errorf("caps[AddressSpace] = %d, want 33554432", caps[AddressSpace])
	}
}

func TestCapsFromEnv_MalformedValue(t *testing.T) {
	clearCapEnv(t)
	os.Setenv("SANDBOX_RLIMIT_CPU", "not-a-number")

	caps, errs := CapsFromEnv()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error, got %d: %v", len(errs), errs)
	}
	if _, ok := caps[CpuSeconds]; ok {
		t.Error("malformed value should leave the resource unset, not zero")
	}
}

func TestCapsFromEnv_PartialFailureStillParsesRest(t *testing.T) {
	clearCapEnv(t)
	os.Setenv("SANDBOX_RLIMIT_AS", "1024")
	os.Setenv("SANDBOX_RLIMIT_NPROC", "garbage")

	caps, errs := CapsFromEnv()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one parse error, got %d", len(errs))
	}
	if caps[AddressSpace] != 1024 {
		t.Errorf("caps[AddressSpace] = %d, want 1024", caps[AddressSpace])
	}
	if _, ok := caps[Processes]; ok {
		t.Error("Processes should be absent after a parse failure")
	}
}
