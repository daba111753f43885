package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/filesystem"
	"github.com/toolchainkit/libdeploy/pkg/testutil"
)

const objdumpOutput = `
/build/test.exe:	file format pe-x86-64

The Import Tables:
  lookup 00009000 time 00000000 fwd 00000000 name 000090a8 addrs 00006000
    DLL Name: KERNEL32.dll
    DLL Name: msvcrt.dll
    DLL Name: libwinpthread-1.dll
    DLL Name: libc++.dll
`

func TestParseImportTable(t *testing.T) {
	dlls := ParseImportTable(objdumpOutput)
	assert.Equal(t, []string{"KERNEL32.dll", "msvcrt.dll", "libwinpthread-1.dll", "libc++.dll"}, dlls)
}

func TestParseImportTableEmpty(t *testing.T) {
	assert.Empty(t, ParseImportTable("no imports here"))
}

func TestPEDetect(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Outputs["llvm-objdump"] = objdumpOutput

	detector := NewPEDetector(runner, filesystem.NewOS(), "llvm-objdump")
	dlls := detector.Detect(context.Background(), "/build/test.exe")

	assert.Len(t, dlls, 4)
	assert.True(t, runner.CalledWith("llvm-objdump", "-p", "/build/test.exe"))
}

func TestPEDetectToolMissing(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Errors["llvm-objdump"] = deployerrors.New(deployerrors.ErrToolUnavailable, "llvm-objdump not found")

	detector := NewPEDetector(runner, filesystem.NewOS(), "llvm-objdump")
	assert.Empty(t, detector.Detect(context.Background(), "/build/test.exe"))
}

func TestPEDetectMergesManifest(t *testing.T) {
	dir := t.TempDir()
	exe := testutil.CreateFile(t, dir, "app.exe", "MZ")
	testutil.CreateFile(t, dir, "app.exe.manifest", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<assembly xmlns="urn:schemas-microsoft-com:asm.v1" manifestVersion="1.0">
  <assemblyIdentity name="app" version="1.0.0.0" type="win32"/>
  <file name="libcustom-1.dll"/>
  <dependency>
    <dependentAssembly>
      <assemblyIdentity type="win32" name="libsxs.dll" version="1.0.0.0"/>
    </dependentAssembly>
  </dependency>
</assembly>`)

	runner := testutil.NewFakeRunner()
	runner.Outputs["llvm-objdump"] = "DLL Name: libcustom-1.dll\nDLL Name: kernel32.dll\n"

	detector := NewPEDetector(runner, filesystem.NewOS(), "llvm-objdump")
	dlls := detector.Detect(context.Background(), exe)

	// Manifest entries are merged without duplicating import-table hits
	assert.Equal(t, []string{"libcustom-1.dll", "kernel32.dll", "libsxs.dll"}, dlls)
}

func TestManifestDLLsMissingFile(t *testing.T) {
	assert.Nil(t, ManifestDLLs(filesystem.NewOS(), "/nonexistent/app.exe.manifest"))
}

func TestManifestDLLsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "app.exe.manifest", "<assembly><unclosed")
	assert.Nil(t, ManifestDLLs(filesystem.NewOS(), path))
}
