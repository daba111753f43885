package libdeploy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolchainkit/libdeploy/pkg/filesystem"
	"github.com/toolchainkit/libdeploy/pkg/testutil"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootWithoutCommandFails(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestDeployRequiresArtifact(t *testing.T) {
	_, err := execute(t, "deploy")
	assert.Error(t, err)
}

func TestDeployRejectsUnknownPlatform(t *testing.T) {
	artifact := testutil.CreateFile(t, t.TempDir(), "program", "\x7fELF")
	_, err := execute(t, "deploy", "--platform", "freebsd", artifact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "freebsd")
}

func TestDeployRejectsUnknownBinaryFormat(t *testing.T) {
	artifact := testutil.CreateFile(t, t.TempDir(), "script", "#!/bin/sh\n")
	_, err := execute(t, "deploy", artifact)
	assert.Error(t, err)
}

func TestScanYAMLOutput(t *testing.T) {
	artifact := testutil.CreateFile(t, t.TempDir(), "program", "\x7fELF")
	out, err := execute(t, "scan", "--format", "yaml",
		"--toolchain-root", t.TempDir(), artifact)
	require.NoError(t, err)
	assert.Contains(t, out, "artifact:")
	assert.Contains(t, out, "platform: linux")
}

func TestScanRejectsUnknownFormat(t *testing.T) {
	artifact := testutil.CreateFile(t, t.TempDir(), "program", "\x7fELF")
	_, err := execute(t, "scan", "--format", "xml",
		"--toolchain-root", t.TempDir(), artifact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "libdeploy")
}

func TestHelpTopicsInstalled(t *testing.T) {
	rootCmd := NewRootCmd()
	var helpCmd bool
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			helpCmd = true
		}
	}
	assert.True(t, helpCmd)
}

func TestDescribeArtifact(t *testing.T) {
	fs := filesystem.NewOS()

	art, err := describeArtifact(fs, "ignored", "win32", "amd64")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformWindows, art.Platform)
	assert.Equal(t, "x86_64", art.Arch)
	assert.Equal(t, types.KindUnknown, art.Kind)

	artifact := testutil.CreateFile(t, t.TempDir(), "program", "\x7fELF")
	art, err = describeArtifact(fs, artifact, "", "")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformLinux, art.Platform)
	assert.Equal(t, types.KindExecutable, art.Kind)

	_, err = describeArtifact(fs, artifact, "freebsd", "")
	assert.Error(t, err)
}

func TestNormalizeArch(t *testing.T) {
	assert.Equal(t, "x86_64", normalizeArch("amd64"))
	assert.Equal(t, "x86_64", normalizeArch("x86_64"))
	assert.Equal(t, "arm64", normalizeArch("aarch64"))
	assert.Equal(t, "arm64", normalizeArch("ARM64"))
	assert.Equal(t, "riscv64", normalizeArch("riscv64"))
	assert.NotEmpty(t, normalizeArch(""))
}
