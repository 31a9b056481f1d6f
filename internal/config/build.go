package config

// BuildConfig configures the nix invocations used to materialize the source.
type BuildConfig struct {
	// NixBinary is the executable invoked for build and eval.
	NixBinary string `yaml:"nix_binary"`

	// ExperimentalFeatures are passed as repeated --extra-experimental-features flags.
	ExperimentalFeatures []string `yaml:"experimental_features"`

	// Timeout bounds each invocation. Empty or "0" means wait indefinitely.
	Timeout string `yaml:"timeout"`

	// EnvVars are additional KEY=VALUE pairs for the subprocess.
	EnvVars map[string]string `yaml:"env_vars"`

	// AllowedEnvVars are host variables passed through in addition to the nix essentials.
	AllowedEnvVars []string `yaml:"allowed_env_vars"`
}

// DefaultBuildConfig returns sensible defaults.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		NixBinary:            "nix",
		ExperimentalFeatures: []string{"nix-command", "flakes"},
		EnvVars:              make(map[string]string),
		AllowedEnvVars:       []string{},
	}
}
