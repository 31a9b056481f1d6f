package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"IMPORTJOB_FLAKE", "IMPORTJOB_OUTPUT", "IMPORTJOB_NIX", "IMPORTJOB_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Source.Attribute != "hydownloader.src" {
		t.Errorf("expected Attribute=hydownloader.src, got %s", cfg.Source.Attribute)
	}
	if cfg.Output.Path != "overlay/packages/hydownloader/importJob.json" {
		t.Errorf("unexpected default output path: %s", cfg.Output.Path)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected Indent=2, got %d", cfg.Output.Indent)
	}
	if len(cfg.Build.ExperimentalFeatures) != 2 {
		t.Errorf("expected 2 experimental features, got %v", cfg.Build.ExperimentalFeatures)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", DefaultConfigFile)

	cfg := DefaultConfig()
	cfg.Source.Flake = "github:example/overlay"
	cfg.Build.Timeout = "5m"
	cfg.Build.EnvVars["NIX_CONFIG"] = "sandbox = false"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Source.Flake != "github:example/overlay" {
		t.Errorf("expected Flake=github:example/overlay, got %s", loaded.Source.Flake)
	}
	if loaded.GetBuildTimeout() != 5*time.Minute {
		t.Errorf("expected 5m timeout, got %s", loaded.GetBuildTimeout())
	}
	if loaded.Build.EnvVars["NIX_CONFIG"] != "sandbox = false" {
		t.Errorf("env_vars not round-tripped: %v", loaded.Build.EnvVars)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source.Flake != "." {
		t.Errorf("expected default flake, got %s", cfg.Source.Flake)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	content := "output:\n  path: out/importJob.json\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Path != "out/importJob.json" {
		t.Errorf("expected overridden path, got %s", cfg.Output.Path)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("expected default indent to survive, got %d", cfg.Output.Indent)
	}
	if cfg.Source.HashAttribute != "hydownloader.src.outputHash" {
		t.Errorf("expected default hash attribute, got %s", cfg.Source.HashAttribute)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte("source: [unterminated"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty flake", func(c *Config) { c.Source.Flake = " " }},
		{"empty attribute", func(c *Config) { c.Source.Attribute = "" }},
		{"empty hash attribute", func(c *Config) { c.Source.HashAttribute = "" }},
		{"absolute relative path", func(c *Config) { c.Source.RelativePath = "/etc/passwd" }},
		{"empty nix binary", func(c *Config) { c.Build.NixBinary = "" }},
		{"bad timeout", func(c *Config) { c.Build.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Build.Timeout = "-1s" }},
		{"empty output", func(c *Config) { c.Output.Path = "" }},
		{"zero indent", func(c *Config) { c.Output.Indent = 0 }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestGetBuildTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetBuildTimeout(); got != 0 {
		t.Errorf("expected no timeout by default, got %s", got)
	}
	cfg.Build.Timeout = "90s"
	if got := cfg.GetBuildTimeout(); got != 90*time.Second {
		t.Errorf("expected 90s, got %s", got)
	}
	cfg.Build.Timeout = "garbage"
	if got := cfg.GetBuildTimeout(); got != 0 {
		t.Errorf("expected fallback 0, got %s", got)
	}
}

func TestFindWorkspaceRoot_PrefersConfigFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DefaultConfigFile), []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	got, err := FindWorkspaceRoot(nested)
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	if got != root {
		t.Fatalf("FindWorkspaceRoot=%q, want %q", got, root)
	}
}

func TestFindWorkspaceRoot_FallsBackToFlake(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "flake.nix"), []byte("{ }\n"), 0o644); err != nil {
		t.Fatalf("write flake.nix: %v", err)
	}
	nested := filepath.Join(root, "overlay")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	got, err := FindWorkspaceRoot(nested)
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	if got != root {
		t.Fatalf("FindWorkspaceRoot=%q, want %q", got, root)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/work", "out/a.json"); got != filepath.Join("/work", "out/a.json") {
		t.Errorf("unexpected relative resolution: %s", got)
	}
	if got := ResolvePath("/work", "/abs/a.json"); got != "/abs/a.json" {
		t.Errorf("absolute path should be kept, got %s", got)
	}
}
