package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolchainkit/libdeploy/pkg/filesystem"
	"github.com/toolchainkit/libdeploy/pkg/testutil"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

func TestNormalizePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"windows", types.PlatformWindows},
		{"win", types.PlatformWindows},
		{"win32", types.PlatformWindows},
		{"Win32", types.PlatformWindows},
		{"WINDOWS", types.PlatformWindows},
		{"linux", types.PlatformLinux},
		{"Linux", types.PlatformLinux},
		{"darwin", types.PlatformDarwin},
		{"macos", types.PlatformDarwin},
		{" macOS ", types.PlatformDarwin},
		{"freebsd", ""},
		{"", ""},
		{"osx", ""},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePlatform(tt.input))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("win32"))
	assert.True(t, IsSupported("macOS"))
	assert.True(t, IsSupported("linux"))
	assert.False(t, IsSupported("freebsd"))
	assert.False(t, IsSupported(""))
}

func TestSupportedPlatforms(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{types.PlatformWindows, types.PlatformLinux, types.PlatformDarwin},
		SupportedPlatforms())
}

func TestFactoryCreatesPlatformDeployers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Toolchain.Root = t.TempDir()
	fs := filesystem.NewOS()
	runner := testutil.NewFakeRunner()

	tests := []struct {
		platform string
		want     string
		ext      string
	}{
		{"win32", types.PlatformWindows, ".dll"},
		{"linux", types.PlatformLinux, ".so"},
		{"macos", types.PlatformDarwin, ".dylib"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			d, ok := NewWithRunners(tt.platform, "x86_64", cfg, fs, runner, runner)
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Platform())
			assert.Equal(t, tt.ext, d.LibraryExtension())
		})
	}
}

func TestFactoryRejectsUnknownPlatform(t *testing.T) {
	cfg := testConfig(t)
	cfg.Toolchain.Root = t.TempDir()

	d, ok := NewWithRunners("freebsd", "x86_64", cfg, filesystem.NewOS(),
		testutil.NewFakeRunner(), testutil.NewFakeRunner())
	assert.False(t, ok)
	assert.Nil(t, d)
}

func TestFactoryWithRealRunners(t *testing.T) {
	cfg := testConfig(t)
	cfg.Toolchain.Root = t.TempDir()

	d, ok := New("linux", "x86_64", cfg, filesystem.NewOS())
	require.True(t, ok)
	assert.Equal(t, types.PlatformLinux, d.Platform())
}
