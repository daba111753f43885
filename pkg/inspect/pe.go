package inspect

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// Format: "    DLL Name: libwinpthread-1.dll"
var dllNamePattern = regexp.MustCompile(`(?i)DLL Name:\s+(\S+)`)

// PEDetector extracts the import table of a PE binary using llvm-objdump -p.
// The objdump binary ships with the toolchain itself, so its location is
// injected rather than resolved from PATH. If a side-by-side manifest sits
// next to the binary, DLLs it names are merged into the result.
type PEDetector struct {
	runner      types.Runner
	fs          types.FS
	objdumpPath string
	logger      zerolog.Logger
}

// NewPEDetector creates a detector using the llvm-objdump at objdumpPath
func NewPEDetector(runner types.Runner, fs types.FS, objdumpPath string) *PEDetector {
	return &PEDetector{
		runner:      runner,
		fs:          fs,
		objdumpPath: objdumpPath,
		logger:      logging.GetLogger("inspect.pe"),
	}
}

// Detect returns the DLL names imported by the binary. Any tool failure
// yields an empty slice; the Windows deployer falls back to its heuristic
// runtime DLL list in that case.
func (d *PEDetector) Detect(ctx context.Context, binaryPath string) []string {
	imports := d.detectImports(ctx, binaryPath)

	manifest := ManifestDLLs(d.fs, binaryPath+".manifest")
	for _, name := range manifest {
		if !containsString(imports, name) {
			imports = append(imports, name)
		}
	}

	return imports
}

func (d *PEDetector) detectImports(ctx context.Context, binaryPath string) []string {
	out, err := d.runner.Run(ctx, d.objdumpPath, "-p", binaryPath)
	if err != nil {
		d.logger.Warn().Err(err).Str("binary", binaryPath).Msg("llvm-objdump inspection failed")
		return nil
	}
	return ParseImportTable(out)
}

// ParseImportTable extracts imported DLL names from llvm-objdump -p output
func ParseImportTable(output string) []string {
	var dlls []string
	for _, match := range dllNamePattern.FindAllStringSubmatch(output, -1) {
		dlls = append(dlls, match[1])
	}
	return dlls
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
