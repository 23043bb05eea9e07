package linux

import (
	"bytes"
	"log/slog"
	"testing"

	"cellrun/spec"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TestApplyCaps_Empty tests that an empty cap table applies nothing and
// logs nothing.
func TestApplyCaps_Empty(t *testing.T) {
	var buf bytes.Buffer
	ApplyCaps(testLogger(&buf), spec.ResourceCaps{})
	if buf.Len() != 0 {
		t.Errorf("expected no log output for empty caps, got %q", buf.String())
	}
}

// TestApplyCaps_UnknownKindSkipped tests that a ResourceKind with no
// RLIMIT_* mapping is silently skipped rather than panicking.
func TestApplyCaps_UnknownKindSkipped(t *testing.T) {
	var buf bytes.Buffer
	caps := spec.ResourceCaps{spec.ResourceKind(99): 1024}
	ApplyCaps(testLogger(&buf), caps)
	if buf.Len() != 0 {
		t.Errorf("expected no log output for unrecognized kind, got %q", buf.String())
	}
}

// TestResourceToRlimit_AllKindsMapped tests that every ResourceKind the
// spec package defines has an RLIMIT_* mapping here.
func TestResourceToRlimit_AllKindsMapped(t *testing.T) {
	kinds := []spec.ResourceKind{
		spec.AddressSpace, spec.DataSegment, spec.CpuSeconds,
		spec.OpenFiles, spec.Processes,
	}
	for _, k := range kinds {
		if _, ok := resourceToRlimit[k]; !ok {
			t.Errorf("resourceToRlimit missing entry for %s", k)
		}
	}
}
