// Package build assembles the environment handed to external build-system
// subprocesses. The locator never passes os.Environ() through wholesale; it
// asks GetNixEnv for a filtered list instead.
package build

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"importjob/internal/config"
	"importjob/internal/logging"
)

// essentialNixVars are host variables nix needs to find its store, daemon and caches.
var essentialNixVars = []string{
	"PATH",
	"HOME",
	"USER",
	"NIX_PATH",
	"NIX_CONFIG",
	"NIX_REMOTE",
	"NIX_SSL_CERT_FILE",
	"SSL_CERT_FILE",
	"XDG_CACHE_HOME",
	"XDG_CONFIG_HOME",
	"XDG_DATA_HOME",
	"TMPDIR",
}

// GetNixEnv returns the environment for nix build/eval commands.
// It merges:
// 1. Essential nix variables from the current process
// 2. Host variables whitelisted in build.allowed_env_vars
// 3. Explicit build.env_vars (these win over host values)
func GetNixEnv(buildCfg config.BuildConfig) []string {
	env := getBaseNixEnv()

	for _, key := range buildCfg.AllowedEnvVars {
		if hasEnvKey(env, key) {
			continue
		}
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
			logging.BuildDebug("Added whitelisted env: %s", key)
		}
	}

	// Sorted for deterministic command lines in logs and tests.
	keys := make([]string, 0, len(buildCfg.EnvVars))
	for key := range buildCfg.EnvVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = setEnvKey(env, key, buildCfg.EnvVars[key])
		logging.BuildDebug("Added build config env: %s", key)
	}

	logging.BuildDebug("Final build environment has %d vars", len(env))
	return env
}

// getBaseNixEnv returns the essential variables that are set on the host.
func getBaseNixEnv() []string {
	env := []string{}

	for _, key := range essentialNixVars {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
		}
	}

	if !hasEnvKey(env, "XDG_CACHE_HOME") {
		if cache := deriveCacheHome(); cache != "" {
			env = append(env, "XDG_CACHE_HOME="+cache)
			logging.BuildDebug("Derived XDG_CACHE_HOME: %s", cache)
		}
	}

	return env
}

// deriveCacheHome picks a cache directory when XDG_CACHE_HOME is unset,
// so nix's eval cache does not land in an unwritable location.
func deriveCacheHome() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache")
	}
	if tmp := os.Getenv("TMPDIR"); tmp != "" {
		return filepath.Join(tmp, "nix-cache")
	}
	return ""
}

// hasEnvKey checks if an environment key is already set.
func hasEnvKey(env []string, key string) bool {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

// setEnvKey sets or updates an environment variable.
func setEnvKey(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}

// MergeEnv merges additional environment variables into base env.
// Later values override earlier ones.
func MergeEnv(base []string, additional ...string) []string {
	result := make([]string, len(base))
	copy(result, base)

	for _, add := range additional {
		parts := strings.SplitN(add, "=", 2)
		if len(parts) == 2 {
			result = setEnvKey(result, parts[0], parts[1])
		}
	}

	return result
}
