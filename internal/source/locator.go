// Package source resolves the import job script and its content hash.
//
// The core pipeline only sees the Locator interface. NixLocator shells out to
// nix; StaticLocator serves fixed values for local files and tests.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Locator materializes the source file and identifies its revision.
// Each call is a single attempt; nothing is cached or retried.
type Locator interface {
	// ResolveSourcePath returns the filesystem path of the materialized script.
	ResolveSourcePath(ctx context.Context) (string, error)

	// ResolveSourceHash returns the content hash of the source revision.
	ResolveSourceHash(ctx context.Context) (string, error)
}

// ErrEmptyOutput is returned when a build command succeeds but prints nothing.
var ErrEmptyOutput = errors.New("build command produced no output")

// BuildError reports a build system invocation that exited non-zero.
type BuildError struct {
	Command  string
	ExitCode int
	Stderr   string
	// Reason is set when the command was killed instead of exiting.
	Reason string
}

func (e *BuildError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("build command %q %s", e.Command, e.Reason)
	}
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("build command %q exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("build command %q exited with code %d: %s", e.Command, e.ExitCode, lastLine(stderr))
}

// lastLine keeps error strings to one line; the full stderr stays on the error value.
func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// StaticLocator returns fixed values. Empty fields fall back to Fallback when set.
type StaticLocator struct {
	Path     string
	Hash     string
	Fallback Locator
}

var _ Locator = (*StaticLocator)(nil)

func (s *StaticLocator) ResolveSourcePath(ctx context.Context) (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	if s.Fallback != nil {
		return s.Fallback.ResolveSourcePath(ctx)
	}
	return "", fmt.Errorf("no source path configured")
}

func (s *StaticLocator) ResolveSourceHash(ctx context.Context) (string, error) {
	if s.Hash != "" {
		return s.Hash, nil
	}
	if s.Fallback != nil {
		return s.Fallback.ResolveSourceHash(ctx)
	}
	return "", fmt.Errorf("no source hash configured")
}
