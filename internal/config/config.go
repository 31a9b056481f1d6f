package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the workspace root.
const DefaultConfigFile = ".importjob.yaml"

// Config holds all genimportjob configuration.
type Config struct {
	// Source locates the import job script inside the flake.
	Source SourceConfig `yaml:"source"`

	// Build configures the external build system invocations.
	Build BuildConfig `yaml:"build"`

	// Output configures where and how the document is written.
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig describes which flake attributes materialize the source.
type SourceConfig struct {
	Flake         string `yaml:"flake"`          // flake reference, "." for the workspace
	Attribute     string `yaml:"attribute"`      // attribute built to materialize the source tree
	HashAttribute string `yaml:"hash_attribute"` // attribute evaluated to the content hash
	RelativePath  string `yaml:"relative_path"`  // script path inside the materialized tree
}

// OutputConfig configures the generated JSON document.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Indent int    `yaml:"indent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Flake:         ".",
			Attribute:     "hydownloader.src",
			HashAttribute: "hydownloader.src.outputHash",
			RelativePath:  "hydownloader/data/hydownloader-import-jobs.py",
		},

		Build: DefaultBuildConfig(),

		Output: OutputConfig{
			Path:   "overlay/packages/hydownloader/importJob.json",
			Indent: 2,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; env overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("IMPORTJOB_FLAKE"); v != "" {
		c.Source.Flake = v
	}
	if v := os.Getenv("IMPORTJOB_OUTPUT"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("IMPORTJOB_NIX"); v != "" {
		c.Build.NixBinary = v
	}
	if v := os.Getenv("IMPORTJOB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetBuildTimeout returns the build timeout as a duration. Zero means no timeout.
func (c *Config) GetBuildTimeout() time.Duration {
	if strings.TrimSpace(c.Build.Timeout) == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Build.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Flake) == "" {
		return fmt.Errorf("source.flake must not be empty")
	}
	if strings.TrimSpace(c.Source.Attribute) == "" {
		return fmt.Errorf("source.attribute must not be empty")
	}
	if strings.TrimSpace(c.Source.HashAttribute) == "" {
		return fmt.Errorf("source.hash_attribute must not be empty")
	}
	if strings.TrimSpace(c.Source.RelativePath) == "" {
		return fmt.Errorf("source.relative_path must not be empty")
	}
	if filepath.IsAbs(c.Source.RelativePath) {
		return fmt.Errorf("source.relative_path must be relative: %s", c.Source.RelativePath)
	}
	if strings.TrimSpace(c.Build.NixBinary) == "" {
		return fmt.Errorf("build.nix_binary must not be empty")
	}
	if strings.TrimSpace(c.Build.Timeout) != "" {
		d, err := time.ParseDuration(c.Build.Timeout)
		if err != nil {
			return fmt.Errorf("invalid build.timeout %q: %w", c.Build.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("build.timeout must not be negative: %s", c.Build.Timeout)
		}
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	if c.Output.Indent < 1 {
		return fmt.Errorf("output.indent must be >= 1, got %d", c.Output.Indent)
	}

	validFormat := false
	for _, f := range ValidLogFormats {
		if c.Logging.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid logging.format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}

	return nil
}

// FindWorkspaceRoot walks up from start looking for a config file or flake.nix.
// Falls back to start when neither is found.
func FindWorkspaceRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DefaultConfigFile)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "flake.nix")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}

// ResolvePath makes p absolute against root unless it already is.
func ResolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
