// Package config handles configuration management for libdeploy.
// Built-in TOML defaults are layered under an optional user file and
// LIBDEPLOY_* environment variables; deployers receive the resulting
// Config value and never read the environment themselves.
package config

import (
	"slices"
	"strings"
)

// Config is the fully merged configuration passed into the deployer factory
type Config struct {
	Verbose   bool            `koanf:"verbose"`
	Deploy    DeployConfig    `koanf:"deploy"`
	Tools     ToolsConfig     `koanf:"tools"`
	Resolver  ResolverConfig  `koanf:"resolver"`
	Toolchain ToolchainConfig `koanf:"toolchain"`

	Platforms map[string]PlatformRules `koanf:"platforms"`
}

// DeployConfig holds the deployment opt-out switches
type DeployConfig struct {
	// Disabled turns off all library deployment
	Disabled bool `koanf:"disabled"`

	// DisabledPlatforms lists normalized platform names to skip
	// ("windows", "linux", "darwin")
	DisabledPlatforms []string `koanf:"disabled_platforms"`
}

// ToolsConfig bounds external tool invocations
type ToolsConfig struct {
	TimeoutSeconds         int `koanf:"timeout_seconds"`
	CodesignTimeoutSeconds int `koanf:"codesign_timeout_seconds"`
}

// ResolverConfig bounds the transitive dependency traversal
type ResolverConfig struct {
	MaxQueue int `koanf:"max_queue"`
}

// ToolchainConfig points at the installed toolchain
type ToolchainConfig struct {
	// Root overrides the toolchain installation root. Empty means the
	// LIBDEPLOY_TOOLCHAIN_ROOT env var, then the XDG data dir default.
	Root string `koanf:"root"`
}

// PlatformRules is the per-platform classification and search data.
// The allow-list policy is fixed; the concrete patterns are data so they can
// be validated against the real toolchain's shipped library names.
type PlatformRules struct {
	// Deployable are regex patterns for toolchain-owned library filenames
	Deployable []string `koanf:"deployable"`

	// System are exact filenames that are OS-owned and never deployed
	System []string `koanf:"system"`

	// SystemPrefixes are path prefixes that mark a reference OS-owned
	// regardless of its filename (Mach-O)
	SystemPrefixes []string `koanf:"system_prefixes"`

	// Heuristic is the fixed fallback list used when the inspection tool
	// is unavailable (Windows only)
	Heuristic []string `koanf:"heuristic"`

	// SearchExtras are directories searched after the toolchain's own,
	// in order. "{multiarch}" expands to the Debian-style multiarch dir.
	SearchExtras []string `koanf:"search_extras"`
}

// PlatformDisabled reports whether deployment is switched off for the given
// normalized platform name, either globally or per platform.
func (c *Config) PlatformDisabled(platform string) bool {
	if c.Deploy.Disabled {
		return true
	}
	return slices.Contains(c.Deploy.DisabledPlatforms, strings.ToLower(strings.TrimSpace(platform)))
}

// Rules returns the classification rules for a normalized platform name
func (c *Config) Rules(platform string) PlatformRules {
	return c.Platforms[platform]
}
