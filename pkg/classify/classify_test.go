package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

func platformRules(t *testing.T, platform string) config.PlatformRules {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg.Rules(platform)
}

func TestLinuxClassification(t *testing.T) {
	c := New(types.PlatformLinux, platformRules(t, types.PlatformLinux))

	tests := []struct {
		ref        string
		deployable bool
	}{
		{"libc++.so.1", true},
		{"libc++.so", true},
		{"libc++abi.so.1", true},
		{"libunwind.so.1", true},
		{"libclang_rt.asan-x86_64.so", true},
		{"libc.so.6", false},
		{"libm.so.6", false},
		{"libpthread.so.0", false},
		{"libdl.so.2", false},
		{"librt.so.1", false},
		{"linux-vdso.so.1", false},
		{"ld-linux-x86-64.so.2", false},
		{"ld-linux-aarch64.so.1", false},
		{"libgcc_s.so.1", false},
		{"libfoo.so.3", false},
		{"libssl.so.3", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.deployable, c.IsDeployable(tt.ref), tt.ref)
	}
}

func TestWindowsClassification(t *testing.T) {
	c := New(types.PlatformWindows, platformRules(t, types.PlatformWindows))

	tests := []struct {
		ref        string
		deployable bool
	}{
		{"libwinpthread-1.dll", true},
		{"libgcc_s_seh-1.dll", true},
		{"libstdc++-6.dll", true},
		{"libc++.dll", true},
		{"libunwind.dll", true},
		{"libclang_rt.asan_dynamic-x86_64.dll", true},
		{"libclang_rt.ubsan_dynamic-x86_64.dll", true},
		{"KERNEL32.dll", false},
		{"kernel32.dll", false},
		{"ntdll.dll", false},
		{"msvcrt.dll", false},
		{"ws2_32.dll", false},
		{"bcrypt.dll", false},
		{"somedependency.dll", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.deployable, c.IsDeployable(tt.ref), tt.ref)
	}
}

func TestDarwinClassification(t *testing.T) {
	c := New(types.PlatformDarwin, platformRules(t, types.PlatformDarwin))

	tests := []struct {
		ref        string
		deployable bool
	}{
		{"@rpath/libc++.1.dylib", true},
		{"@rpath/libc++abi.1.dylib", true},
		{"@rpath/libunwind.1.dylib", true},
		{"@rpath/libclang_rt.asan_osx_dynamic.dylib", true},
		{"@loader_path/libc++.1.dylib", true},
		{"/usr/lib/libSystem.B.dylib", false},
		{"/System/Library/Frameworks/CoreFoundation.framework/Versions/A/CoreFoundation", false},
		{"@rpath/libsomething.dylib", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.deployable, c.IsDeployable(tt.ref), tt.ref)
	}
}

// A name that matches an allow-list pattern but resolves under a system
// directory is still rejected: path origin beats name pattern.
func TestDarwinSystemPathBeatsPattern(t *testing.T) {
	c := New(types.PlatformDarwin, platformRules(t, types.PlatformDarwin))

	assert.False(t, c.IsDeployable("/usr/lib/libunwind.1.dylib"))
	assert.False(t, c.IsDeployable("/System/Library/libc++.1.dylib"))
}

func TestInvalidPatternIsSkipped(t *testing.T) {
	c := New(types.PlatformLinux, config.PlatformRules{
		Deployable: []string{`libgood\.so`, `ba[d`},
	})

	assert.True(t, c.IsDeployable("libgood.so"))
	assert.False(t, c.IsDeployable("bad.so"))
}

func TestClassify(t *testing.T) {
	c := New(types.PlatformLinux, platformRules(t, types.PlatformLinux))

	assert.Equal(t, ClassDeployable, c.Classify("libc++.so.1"))
	assert.Equal(t, ClassSystem, c.Classify("libc.so.6"))
	assert.Equal(t, ClassUnlisted, c.Classify("libmystery.so.1"))
}

func TestUnrecognizedNeverDeployed(t *testing.T) {
	// Empty rules: nothing is deployable, no matter the name
	c := New(types.PlatformLinux, config.PlatformRules{})

	assert.False(t, c.IsDeployable("libc++.so.1"))
	assert.False(t, c.IsDeployable("anything.so"))
}
