package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"importjob/internal/build"
	"importjob/internal/config"
	"importjob/internal/logging"
	"importjob/internal/tactile"
)

// NixLocator resolves the source through `nix build` and `nix eval`.
type NixLocator struct {
	executor tactile.Executor
	source   config.SourceConfig
	build    config.BuildConfig
	timeout  time.Duration
	workDir  string
}

var _ Locator = (*NixLocator)(nil)

// NewNixLocator creates a locator that runs nix in workDir using executor.
func NewNixLocator(executor tactile.Executor, cfg *config.Config, workDir string) *NixLocator {
	return &NixLocator{
		executor: executor,
		source:   cfg.Source,
		build:    cfg.Build,
		timeout:  cfg.GetBuildTimeout(),
		workDir:  workDir,
	}
}

// ResolveSourcePath builds the source attribute and returns the script path inside it.
func (l *NixLocator) ResolveSourcePath(ctx context.Context) (string, error) {
	timer := logging.StartTimer(logging.CategoryLocator, "nix build")
	defer timer.Stop()

	args := []string{"build", "--no-link", "--print-out-paths"}
	args = append(args, l.featureFlags()...)
	args = append(args, l.installable(l.source.Attribute))

	out, err := l.run(ctx, args)
	if err != nil {
		return "", err
	}

	// Multi-output derivations print one store path per line; the source has one.
	storePath := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	path := filepath.Join(storePath, filepath.FromSlash(l.source.RelativePath))
	logging.Locator("Resolved source path: %s", path)
	return path, nil
}

// ResolveSourceHash evaluates the hash attribute and strips the JSON-style quotes.
func (l *NixLocator) ResolveSourceHash(ctx context.Context) (string, error) {
	timer := logging.StartTimer(logging.CategoryLocator, "nix eval")
	defer timer.Stop()

	args := []string{"eval"}
	args = append(args, l.featureFlags()...)
	args = append(args, l.installable(l.source.HashAttribute))

	out, err := l.run(ctx, args)
	if err != nil {
		return "", err
	}

	hash := strings.Trim(out, `"`)
	logging.Locator("Resolved source hash: %s", hash)
	return hash, nil
}

func (l *NixLocator) featureFlags() []string {
	flags := make([]string, 0, 2*len(l.build.ExperimentalFeatures))
	for _, f := range l.build.ExperimentalFeatures {
		flags = append(flags, "--extra-experimental-features", f)
	}
	return flags
}

func (l *NixLocator) installable(attr string) string {
	return strings.TrimSuffix(l.source.Flake, "#") + "#" + attr
}

// run executes one nix invocation and returns its trimmed stdout.
func (l *NixLocator) run(ctx context.Context, args []string) (string, error) {
	cmd := tactile.Command{
		Binary:           l.build.NixBinary,
		Arguments:        args,
		WorkingDirectory: l.workDir,
		Environment:      build.GetNixEnv(l.build),
		Timeout:          l.timeout,
	}
	logging.LocatorDebug("Running: %s", cmd.CommandString())

	result, err := l.executor.Execute(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("invalid build command %q: %w", cmd.CommandString(), err)
	}
	if result.IsError() {
		return "", fmt.Errorf("failed to run %q: %s", cmd.CommandString(), result.Error)
	}
	if result.Killed {
		return "", &BuildError{
			Command:  cmd.CommandString(),
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
			Reason:   result.KillReason,
		}
	}
	if result.ExitCode != 0 {
		logging.LocatorError("Build command failed (exit %d): %s", result.ExitCode, cmd.CommandString())
		return "", &BuildError{
			Command:  cmd.CommandString(),
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}
	}

	out := strings.TrimSpace(result.Stdout)
	if out == "" {
		return "", fmt.Errorf("%s: %w", cmd.CommandString(), ErrEmptyOutput)
	}
	return out, nil
}
