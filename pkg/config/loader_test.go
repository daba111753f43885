package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolchainkit/libdeploy/pkg/types"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	// Point XDG at an empty dir so a developer's real user config cannot leak in
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.False(t, cfg.Deploy.Disabled)
	assert.Empty(t, cfg.Deploy.DisabledPlatforms)
	assert.Equal(t, 10, cfg.Tools.TimeoutSeconds)
	assert.Equal(t, 60, cfg.Tools.CodesignTimeoutSeconds)
	assert.Equal(t, 256, cfg.Resolver.MaxQueue)
}

func TestLoadPlatformRules(t *testing.T) {
	cfg := loadDefaults(t)

	linux := cfg.Rules(types.PlatformLinux)
	assert.Contains(t, linux.Deployable, `libc\+\+\.so[.\d]*`)
	assert.Contains(t, linux.System, "libc.so.6")
	assert.Contains(t, linux.SearchExtras, "/usr/lib/{multiarch}")

	windows := cfg.Rules(types.PlatformWindows)
	assert.Contains(t, windows.System, "kernel32.dll")
	assert.Equal(t, []string{"libwinpthread-1.dll", "libgcc_s_seh-1.dll", "libstdc++-6.dll"}, windows.Heuristic)

	darwin := cfg.Rules(types.PlatformDarwin)
	assert.Contains(t, darwin.SystemPrefixes, "/usr/lib/")
	assert.Contains(t, darwin.SystemPrefixes, "/System/Library/")
}

func TestGlobalOptOut(t *testing.T) {
	t.Setenv(EnvNoDeployLibs, "1")
	cfg := loadDefaults(t)

	assert.True(t, cfg.Deploy.Disabled)
	assert.True(t, cfg.PlatformDisabled(types.PlatformLinux))
	assert.True(t, cfg.PlatformDisabled(types.PlatformDarwin))
	assert.True(t, cfg.PlatformDisabled(types.PlatformWindows))
}

func TestPlatformOptOut(t *testing.T) {
	t.Setenv(EnvNoDeployDylibs, "1")
	cfg := loadDefaults(t)

	assert.False(t, cfg.Deploy.Disabled)
	assert.True(t, cfg.PlatformDisabled(types.PlatformDarwin))
	assert.False(t, cfg.PlatformDisabled(types.PlatformLinux))
}

func TestPlatformDisabledNormalizes(t *testing.T) {
	cfg := &Config{Deploy: DeployConfig{DisabledPlatforms: []string{"darwin"}}}

	assert.True(t, cfg.PlatformDisabled("  Darwin "))
	assert.False(t, cfg.PlatformDisabled("linux"))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LIBDEPLOY_VERBOSE", "1")
	cfg := loadDefaults(t)
	assert.True(t, cfg.Verbose)
}
