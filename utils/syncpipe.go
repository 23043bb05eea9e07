// Package utils provides terminal raw-mode and parent-child handoff helpers.
package utils

import (
	"fmt"
	"os"
)

// SyncPipe is an anonymous pipe used to hand the marshalled SandboxRequest
// from the supervisor to the child across the clone boundary — the Go
// realization of spec.md's "marshalled argument block" (see SPEC_FULL.md
// §3). The read end is passed to the child via Cmd.ExtraFiles; the write end
// stays with the parent for the child's entire lifetime.
type SyncPipe struct {
	read  *os.File
	write *os.File
}

// NewSyncPipe creates a new anonymous pipe for request handoff.
func NewSyncPipe() (*SyncPipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	return &SyncPipe{read: r, write: w}, nil
}

// ReadFile returns the read end, given to the child as an extra file.
func (s *SyncPipe) ReadFile() *os.File {
	return s.read
}

// WriteFile returns the write end, retained by the parent.
func (s *SyncPipe) WriteFile() *os.File {
	return s.write
}

// CloseRead closes the parent's copy of the read end. Safe to call once the
// child process has been started — the child holds its own duplicate.
func (s *SyncPipe) CloseRead() error {
	if s.read == nil {
		return nil
	}
	return s.read.Close()
}

// CloseWrite closes the write end. Must only be called after the child has
// been reaped (wait has returned); it is the parent-owned resource that
// outlives the child, mirroring spec.md's clone-stack lifetime invariant.
func (s *SyncPipe) CloseWrite() error {
	if s.write == nil {
		return nil
	}
	return s.write.Close()
}

// Close closes both ends, for use on an error path before the child starts.
func (s *SyncPipe) Close() {
	s.CloseRead()
	s.CloseWrite()
}
